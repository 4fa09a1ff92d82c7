// Package pylint converts `pylint -f json` output into canonical
// diagnostics.
package pylint

import (
	"io"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

var jsonCodec = json.ConfigCompatibleWithStandardLibrary

// entry is one element of the pylint JSON array.
type entry struct {
	Type      string `json:"type"`
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Symbol    string `json:"symbol"`
	Message   string `json:"message"`
	MessageID string `json:"message-id"`
}

type Parser struct{}

func New() *Parser { return &Parser{} }

func (*Parser) ToolID() string      { return "pylint" }
func (*Parser) DisplayName() string { return "Pylint" }
func (*Parser) URL() string         { return "https://www.pylint.org" }

// Parse decodes the JSON document strictly: a malformed document yields a
// ParseError and no diagnostics. Individual entries missing a usable
// location are skipped with a warning; pylint columns are 0-based and shift
// to the canonical 1-based scale.
func (p *Parser) Parse(r io.Reader, root string) (*converter.Result, error) {
	var entries []entry
	if err := jsonCodec.NewDecoder(r).Decode(&entries); err != nil {
		return nil, &converter.ParseError{Tool: p.ToolID(), Reason: err.Error()}
	}

	res := &converter.Result{}
	rv := converter.Resolver{Root: root}
	for i, e := range entries {
		if e.Path == "" || e.Line < 1 {
			res.Warnf(0, "entry %d has no usable location, skipped", i)
			continue
		}
		if e.Message == "" {
			res.Warnf(0, "entry %d has no message, skipped", i)
			continue
		}
		res.Record(rv, report.Diagnostic{
			FilePath:     e.Path,
			Line:         e.Line,
			Column:       e.Column + 1,
			CheckerID:    checkerID(e),
			Severity:     mapSeverity(e.Type),
			Message:      e.Message,
			AnalyzerName: p.ToolID(),
		}, 0)
	}
	return res, nil
}

// checkerID prefers the human-readable symbol ("unused-import") over the
// message id ("W0611"), falling back to the tool id when both are absent.
func checkerID(e entry) string {
	if e.Symbol != "" {
		return e.Symbol
	}
	if e.MessageID != "" {
		return e.MessageID
	}
	return "pylint"
}

func mapSeverity(typ string) report.Severity {
	switch strings.ToLower(typ) {
	case "fatal", "error":
		return report.SeverityError
	case "warning":
		return report.SeverityWarning
	case "convention", "refactor":
		return report.SeverityStyle
	case "info":
		return report.SeverityInfo
	default:
		return report.SeverityUnspecified
	}
}
