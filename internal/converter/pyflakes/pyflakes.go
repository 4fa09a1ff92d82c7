// Package pyflakes converts pyflakes console output into canonical
// diagnostics.
package pyflakes

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

// Pyflakes grew a column field over time: old releases print
// "path:line: message", newer ones "path:line:col: message" (the colon after
// the column is absent in some builds). Both shapes are accepted; a missing
// column is recorded as zero.
var (
	colRe   = regexp.MustCompile(`^(.+?):(\d+):(\d+):? (.+)$`)
	plainRe = regexp.MustCompile(`^(.+?):(\d+):? (.+)$`)
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (*Parser) ToolID() string      { return "pyflakes" }
func (*Parser) DisplayName() string { return "Pyflakes" }
func (*Parser) URL() string         { return "https://github.com/PyCQA/pyflakes" }

func (p *Parser) Parse(r io.Reader, root string) (*converter.Result, error) {
	res := &converter.Result{}
	rv := converter.Resolver{Root: root}

	sc := converter.NewLineScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if sc.Truncated() {
			res.Warnf(lineNo, "line longer than %d bytes skipped", converter.MaxLineBytes)
			continue
		}
		line := sc.Text()
		if line == "" {
			continue
		}

		var file, msg string
		var ln, col int
		if m := colRe.FindStringSubmatch(line); m != nil {
			file, msg = m[1], m[4]
			ln, _ = strconv.Atoi(m[2])
			col, _ = strconv.Atoi(m[3])
		} else if m := plainRe.FindStringSubmatch(line); m != nil {
			file, msg = m[1], m[3]
			ln, _ = strconv.Atoi(m[2])
		} else {
			res.Warnf(lineNo, "unrecognized line %q skipped", converter.Excerpt(line))
			continue
		}
		if ln < 1 {
			res.Warnf(lineNo, "implausible line number skipped")
			continue
		}

		res.Record(rv, report.Diagnostic{
			FilePath:     file,
			Line:         ln,
			Column:       col,
			CheckerID:    p.ToolID(),
			Severity:     report.SeverityWarning,
			Message:      msg,
			AnalyzerName: p.ToolID(),
		}, lineNo)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading pyflakes output: %w", err)
	}
	return res, nil
}
