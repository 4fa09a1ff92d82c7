// Package clangtidy converts clang-tidy console output (which shares its
// grammar with plain clang compiler diagnostics) into canonical diagnostics.
package clangtidy

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

// diagRe matches one diagnostic line:
//
//	path:line:col: severity: message [checker-name]
//
// The trailing [checker-name] is optional; plain compiler diagnostics omit
// it. The path group is lazy so the first line:col pair wins.
var diagRe = regexp.MustCompile(`^(.+?):(\d+):(\d+): (error|fatal error|warning|remark|note): (.*?)(?: \[([^\]]+)\])?$`)

// chatterRes match the footer noise clang-tidy prints around diagnostics.
// These are expected and skipped without a warning.
var chatterRes = []*regexp.Regexp{
	regexp.MustCompile(`^\d+ (?:warnings?|errors?)(?: and \d+ errors?)? generated\.`),
	regexp.MustCompile(`^Suppressed \d+ warnings`),
	regexp.MustCompile(`^Use -header-filter=`),
	regexp.MustCompile(`^Error while processing `),
}

// Parser converts clang-tidy output. It is a tolerant line parser: lines it
// cannot make sense of are skipped, never fatal.
type Parser struct{}

// New returns the clang-tidy converter.
func New() *Parser { return &Parser{} }

func (*Parser) ToolID() string      { return "clang-tidy" }
func (*Parser) DisplayName() string { return "Clang Tidy" }
func (*Parser) URL() string         { return "https://clang.llvm.org/extra/clang-tidy" }

// Parse scans r line by line. "note:" lines attach to the preceding
// diagnostic as path events; indented source echoes, caret markers and
// footer chatter are skipped silently; any other unrecognized line is
// skipped with a warning.
func (p *Parser) Parse(r io.Reader, root string) (*converter.Result, error) {
	res := &converter.Result{}
	rv := converter.Resolver{Root: root}

	var (
		pending     *report.Diagnostic
		pendingLine int
	)
	flush := func() {
		if pending != nil {
			res.Record(rv, *pending, pendingLine)
			pending = nil
		}
	}

	sc := converter.NewLineScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if sc.Truncated() {
			res.Warnf(lineNo, "line longer than %d bytes skipped", converter.MaxLineBytes)
			continue
		}
		line := sc.Text()

		m := diagRe.FindStringSubmatch(line)
		if m == nil {
			if !isChatter(line) {
				res.Warnf(lineNo, "unrecognized line %q skipped", converter.Excerpt(line))
			}
			continue
		}

		file := m[1]
		ln, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		sevWord, msg, checker := m[4], m[5], m[6]

		if ln < 1 {
			res.Warnf(lineNo, "implausible line number %q skipped", m[2])
			continue
		}

		if sevWord == "note" {
			if pending == nil {
				res.Warnf(lineNo, "note without a preceding diagnostic skipped")
				continue
			}
			pending.PathEvents = append(pending.PathEvents, report.PathEvent{
				File: file, Line: ln, Column: col, Message: msg,
			})
			continue
		}

		flush()
		if strings.TrimSpace(msg) == "" {
			res.Warnf(lineNo, "diagnostic without a message skipped")
			continue
		}
		if checker == "" {
			checker = fallbackChecker(sevWord)
		}
		pending = &report.Diagnostic{
			FilePath:     file,
			Line:         ln,
			Column:       col,
			CheckerID:    checker,
			Severity:     mapSeverity(sevWord),
			Message:      msg,
			AnalyzerName: p.ToolID(),
		}
		pendingLine = lineNo
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading clang-tidy output: %w", err)
	}
	flush()
	return res, nil
}

// isChatter reports whether a non-diagnostic line is expected clang noise:
// blank separators, indented source echoes and caret markers, and the run
// footer.
func isChatter(line string) bool {
	if line == "" {
		return true
	}
	if line[0] == ' ' || line[0] == '\t' {
		return true
	}
	for _, re := range chatterRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func mapSeverity(word string) report.Severity {
	switch word {
	case "error", "fatal error":
		return report.SeverityError
	case "warning":
		return report.SeverityWarning
	case "remark":
		return report.SeverityInfo
	default:
		return report.SeverityUnspecified
	}
}

// fallbackChecker names compiler diagnostics that carry no [checker] suffix,
// following the clang-diagnostic-* convention.
func fallbackChecker(word string) string {
	if word == "fatal error" {
		word = "error"
	}
	return "clang-diagnostic-" + word
}
