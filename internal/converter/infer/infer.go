// Package infer converts Facebook Infer's report.json into canonical
// diagnostics.
package infer

import (
	"io"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

var jsonCodec = json.ConfigCompatibleWithStandardLibrary

// bug is one element of report.json. Infer uses -1 for unknown columns.
type bug struct {
	BugType   string      `json:"bug_type"`
	Qualifier string      `json:"qualifier"`
	Severity  string      `json:"severity"`
	Line      int         `json:"line"`
	Column    int         `json:"column"`
	File      string      `json:"file"`
	BugTrace  []traceItem `json:"bug_trace"`
}

type traceItem struct {
	Level        int    `json:"level"`
	Filename     string `json:"filename"`
	LineNumber   int    `json:"line_number"`
	ColumnNumber int    `json:"column_number"`
	Description  string `json:"description"`
}

type Parser struct{}

func New() *Parser { return &Parser{} }

func (*Parser) ToolID() string      { return "infer" }
func (*Parser) DisplayName() string { return "Facebook Infer" }
func (*Parser) URL() string         { return "https://fbinfer.com" }

// Parse decodes report.json strictly. The bug trace becomes the diagnostic's
// path events in exactly the order Infer emitted it; trace steps without a
// file and line carry no locatable information and are dropped from the
// trace.
func (p *Parser) Parse(r io.Reader, root string) (*converter.Result, error) {
	var bugs []bug
	if err := jsonCodec.NewDecoder(r).Decode(&bugs); err != nil {
		return nil, &converter.ParseError{Tool: p.ToolID(), Reason: err.Error()}
	}

	res := &converter.Result{}
	rv := converter.Resolver{Root: root}
	for i, b := range bugs {
		if b.File == "" || b.Line < 1 {
			res.Warnf(0, "bug %d (%s) has no usable location, skipped", i, b.BugType)
			continue
		}
		if b.Qualifier == "" {
			res.Warnf(0, "bug %d (%s) has no qualifier, skipped", i, b.BugType)
			continue
		}
		checker := b.BugType
		if checker == "" {
			checker = p.ToolID()
		}

		var events []report.PathEvent
		for _, step := range b.BugTrace {
			if step.Filename == "" || step.LineNumber < 1 {
				continue
			}
			events = append(events, report.PathEvent{
				File:    step.Filename,
				Line:    step.LineNumber,
				Column:  clampColumn(step.ColumnNumber),
				Message: step.Description,
			})
		}

		res.Record(rv, report.Diagnostic{
			FilePath:     b.File,
			Line:         b.Line,
			Column:       clampColumn(b.Column),
			CheckerID:    checker,
			Severity:     mapSeverity(b.Severity),
			Message:      b.Qualifier,
			PathEvents:   events,
			AnalyzerName: p.ToolID(),
		}, 0)
	}
	return res, nil
}

// clampColumn maps Infer's "-1 = unknown" onto the canonical "0 = not
// reported".
func clampColumn(col int) int {
	if col < 1 {
		return 0
	}
	return col
}

func mapSeverity(s string) report.Severity {
	switch strings.ToUpper(s) {
	case "ERROR":
		return report.SeverityError
	case "WARNING":
		return report.SeverityWarning
	case "INFO":
		return report.SeverityInfo
	case "ADVICE":
		return report.SeverityStyle
	default:
		return report.SeverityUnspecified
	}
}
