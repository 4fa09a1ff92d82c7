// Package golint converts golint console output into canonical diagnostics.
package golint

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

// Golint emits one finding per line as path:line:col: message. It reports
// neither a severity nor a checker name, so every diagnostic is a warning
// attributed to the tool itself.
var diagRe = regexp.MustCompile(`^(.+?):(\d+):(\d+): (.+)$`)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (*Parser) ToolID() string      { return "golint" }
func (*Parser) DisplayName() string { return "Golint" }
func (*Parser) URL() string         { return "https://github.com/golang/lint" }

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
		m := diagRe.FindStringSubmatch(line)
		if m == nil {
			res.Warnf(lineNo, "unrecognized line %q skipped", converter.Excerpt(line))
			continue
		}
		ln, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		if ln < 1 {
			res.Warnf(lineNo, "implausible line number %q skipped", m[2])
			continue
		}
		res.Record(rv, report.Diagnostic{
			FilePath:     m[1],
			Line:         ln,
			Column:       col,
			CheckerID:    p.ToolID(),
			Severity:     report.SeverityWarning,
			Message:      m[4],
			AnalyzerName: p.ToolID(),
		}, lineNo)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading golint output: %w", err)
	}
	return res, nil
}
