// Package tslint converts `tslint -t json` output into canonical
// diagnostics.
package tslint

import (
	"io"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

var jsonCodec = json.ConfigCompatibleWithStandardLibrary

// failure is one element of the tslint JSON array. Positions are 0-based in
// the native format.
type failure struct {
	Name          string   `json:"name"`
	RuleName      string   `json:"ruleName"`
	Failure       string   `json:"failure"`
	RuleSeverity  string   `json:"ruleSeverity"`
	StartPosition position `json:"startPosition"`
}

type position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Parser struct{}

func New() *Parser { return &Parser{} }

func (*Parser) ToolID() string      { return "tslint" }
func (*Parser) DisplayName() string { return "TSLint" }
func (*Parser) URL() string         { return "https://palantir.github.io/tslint" }

func (p *Parser) Parse(r io.Reader, root string) (*converter.Result, error) {
	var failures []failure
	if err := jsonCodec.NewDecoder(r).Decode(&failures); err != nil {
		return nil, &converter.ParseError{Tool: p.ToolID(), Reason: err.Error()}
	}

	res := &converter.Result{}
	rv := converter.Resolver{Root: root}
	for i, f := range failures {
		if f.Name == "" {
			res.Warnf(0, "failure %d names no file, skipped", i)
			continue
		}
		if f.Failure == "" {
			res.Warnf(0, "failure %d has no message, skipped", i)
			continue
		}
		checker := f.RuleName
		if checker == "" {
			checker = p.ToolID()
		}
		res.Record(rv, report.Diagnostic{
			FilePath:     f.Name,
			Line:         f.StartPosition.Line + 1,
			Column:       f.StartPosition.Character + 1,
			CheckerID:    checker,
			Severity:     mapSeverity(f.RuleSeverity),
			Message:      f.Failure,
			AnalyzerName: p.ToolID(),
		}, 0)
	}
	return res, nil
}

// mapSeverity translates tslint rule severities. "off" still appears for
// rules force-run via CLI flags and is treated as informational.
func mapSeverity(s string) report.Severity {
	switch strings.ToLower(s) {
	case "error":
		return report.SeverityError
	case "warning":
		return report.SeverityWarning
	case "off":
		return report.SeverityInfo
	default:
		return report.SeverityUnspecified
	}
}
