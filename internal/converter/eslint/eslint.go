// Package eslint converts `eslint -f json` output into canonical
// diagnostics.
package eslint

import (
	"io"

	json "github.com/json-iterator/go"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

var jsonCodec = json.ConfigCompatibleWithStandardLibrary

// fileResult is one element of the eslint JSON array: one linted file with
// its messages.
type fileResult struct {
	FilePath string    `json:"filePath"`
	Messages []message `json:"messages"`
}

type message struct {
	RuleID   string `json:"ruleId"` // null for parse-level problems; decodes to "".
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

type Parser struct{}

func New() *Parser { return &Parser{} }

func (*Parser) ToolID() string      { return "eslint" }
func (*Parser) DisplayName() string { return "ESLint" }
func (*Parser) URL() string         { return "https://eslint.org" }

// Parse decodes the JSON document strictly. ESLint reports syntax errors as
// messages with a null ruleId and sometimes without a line; those keep the
// tool id as checker, and location-less messages are skipped with a warning.
func (p *Parser) Parse(r io.Reader, root string) (*converter.Result, error) {
	var files []fileResult
	if err := jsonCodec.NewDecoder(r).Decode(&files); err != nil {
		return nil, &converter.ParseError{Tool: p.ToolID(), Reason: err.Error()}
	}

	res := &converter.Result{}
	rv := converter.Resolver{Root: root}
	for _, f := range files {
		for i, m := range f.Messages {
			if m.Line < 1 {
				res.Warnf(0, "%s: message %d has no usable line, skipped", f.FilePath, i)
				continue
			}
			if m.Message == "" {
				res.Warnf(0, "%s: message %d has no text, skipped", f.FilePath, i)
				continue
			}
			checker := m.RuleID
			if checker == "" {
				checker = p.ToolID()
			}
			res.Record(rv, report.Diagnostic{
				FilePath:     f.FilePath,
				Line:         m.Line,
				Column:       m.Column,
				CheckerID:    checker,
				Severity:     mapSeverity(m.Severity),
				Message:      m.Message,
				AnalyzerName: p.ToolID(),
			}, 0)
		}
	}
	return res, nil
}

// mapSeverity translates eslint's numeric levels: 2 is an error, 1 a
// warning. Anything else is out of contract and lands on unspecified.
func mapSeverity(level int) report.Severity {
	switch level {
	case 2:
		return report.SeverityError
	case 1:
		return report.SeverityWarning
	default:
		return report.SeverityUnspecified
	}
}
