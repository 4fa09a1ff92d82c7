// Package cppcheck converts `cppcheck --xml --xml-version=2` output into
// canonical diagnostics.
package cppcheck

import (
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

// Parser handles the version 2 XML tree:
//
//	<results version="2">
//	  <cppcheck version="..."/>
//	  <errors>
//	    <error id="..." severity="..." msg="..." verbose="...">
//	      <location file="..." line="..." column="..." info="..."/>
//	    </error>
//	  </errors>
//	</results>
//
// The first location of an error is its primary position; the remaining
// locations become path events in document order. Cppcheck's severity
// vocabulary is the canonical scale itself (plus "debug", which carries no
// severity and maps to unspecified).
type Parser struct{}

func New() *Parser { return &Parser{} }

func (*Parser) ToolID() string      { return "cppcheck" }
func (*Parser) DisplayName() string { return "Cppcheck" }
func (*Parser) URL() string         { return "https://cppcheck.sourceforge.io" }

func (p *Parser) Parse(r io.Reader, root string) (*converter.Result, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &converter.ParseError{Tool: p.ToolID(), Reason: err.Error()}
	}

	results := doc.Root()
	if results == nil || results.Tag != "results" {
		return nil, &converter.ParseError{Tool: p.ToolID(), Reason: "document root is not <results>"}
	}
	if v := results.SelectAttrValue("version", ""); v != "2" {
		return nil, &converter.ParseError{
			Tool:   p.ToolID(),
			Reason: "unsupported results version " + strconv.Quote(v) + ", need --xml-version=2 output",
		}
	}

	res := &converter.Result{}
	rv := converter.Resolver{Root: root}

	errorsEl := results.SelectElement("errors")
	if errorsEl == nil {
		return res, nil
	}

	for i, errEl := range errorsEl.SelectElements("error") {
		checker := errEl.SelectAttrValue("id", "")
		if checker == "" {
			checker = p.ToolID()
		}
		msg := errEl.SelectAttrValue("msg", "")
		if msg == "" {
			msg = errEl.SelectAttrValue("verbose", "")
		}
		if msg == "" {
			res.Warnf(0, "error %d (%s) has no message, skipped", i, checker)
			continue
		}

		locations := errEl.SelectElements("location")
		primary, events := splitLocations(locations, msg)
		if primary == nil {
			res.Warnf(0, "error %d (%s) has no usable location, skipped", i, checker)
			continue
		}

		res.Record(rv, report.Diagnostic{
			FilePath:     primary.file,
			Line:         primary.line,
			Column:       primary.col,
			CheckerID:    checker,
			Severity:     report.ParseSeverity(errEl.SelectAttrValue("severity", "")),
			Message:      msg,
			PathEvents:   events,
			AnalyzerName: p.ToolID(),
		}, 0)
	}
	return res, nil
}

type location struct {
	file string
	line int
	col  int
}

// splitLocations picks the first usable location as the primary position and
// turns the rest into path events, keeping document order. A location's
// event message is its info attribute, falling back to the error message.
func splitLocations(els []*etree.Element, errMsg string) (*location, []report.PathEvent) {
	var primary *location
	var events []report.PathEvent
	for _, el := range els {
		file := el.SelectAttrValue("file", "")
		line, _ := strconv.Atoi(el.SelectAttrValue("line", ""))
		if file == "" || line < 1 {
			continue
		}
		col, _ := strconv.Atoi(el.SelectAttrValue("column", ""))
		if col < 0 {
			col = 0
		}
		if primary == nil {
			primary = &location{file: file, line: line, col: col}
			continue
		}
		msg := el.SelectAttrValue("info", "")
		if msg == "" {
			msg = errMsg
		}
		events = append(events, report.PathEvent{File: file, Line: line, Column: col, Message: msg})
	}
	return primary, events
}
