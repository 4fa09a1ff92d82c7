// Package spotbugs converts SpotBugs (`spotbugs -xml:withMessages`) output
// into canonical diagnostics.
package spotbugs

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/beevik/etree"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

// Parser handles the BugCollection XML tree. SpotBugs records source
// positions as <SourceLine> elements whose sourcepath is relative to one of
// the <SrcDir> entries under <Project>; the parser probes those directories
// to recover a real path before falling back to the analysis root. Only
// SourceLine elements that are direct children of a BugInstance describe the
// bug itself (nested ones under Class/Method describe enclosing scopes and
// are ignored).
type Parser struct{}

func New() *Parser { return &Parser{} }

func (*Parser) ToolID() string      { return "spotbugs" }
func (*Parser) DisplayName() string { return "SpotBugs" }
func (*Parser) URL() string         { return "https://spotbugs.github.io" }

func (p *Parser) Parse(r io.Reader, root string) (*converter.Result, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &converter.ParseError{Tool: p.ToolID(), Reason: err.Error()}
	}

	collection := doc.Root()
	if collection == nil || collection.Tag != "BugCollection" {
		return nil, &converter.ParseError{Tool: p.ToolID(), Reason: "document root is not <BugCollection>"}
	}

	res := &converter.Result{}
	rv := converter.Resolver{Root: root}
	srcDirs := sourceDirs(collection)

	for i, bugEl := range collection.SelectElements("BugInstance") {
		checker := bugEl.SelectAttrValue("type", "")
		if checker == "" {
			checker = p.ToolID()
		}
		msg := message(bugEl, checker)

		lines := usableSourceLines(bugEl)
		if len(lines) == 0 {
			res.Warnf(0, "bug %d (%s) has no source line, skipped", i, checker)
			continue
		}
		primary := pickPrimary(lines)

		var events []report.PathEvent
		for _, sl := range lines {
			if sl == primary {
				continue
			}
			start, _ := strconv.Atoi(sl.SelectAttrValue("start", ""))
			events = append(events, report.PathEvent{
				File:    resolveSource(sl.SelectAttrValue("sourcepath", ""), srcDirs),
				Line:    start,
				Message: eventMessage(sl),
			})
		}

		start, _ := strconv.Atoi(primary.SelectAttrValue("start", ""))
		res.Record(rv, report.Diagnostic{
			FilePath:     resolveSource(primary.SelectAttrValue("sourcepath", ""), srcDirs),
			Line:         start,
			CheckerID:    checker,
			Severity:     mapPriority(bugEl.SelectAttrValue("priority", "")),
			Message:      msg,
			PathEvents:   events,
			AnalyzerName: p.ToolID(),
		}, 0)
	}
	return res, nil
}

// sourceDirs collects the <SrcDir> entries of the <Project> element.
func sourceDirs(collection *etree.Element) []string {
	project := collection.SelectElement("Project")
	if project == nil {
		return nil
	}
	var dirs []string
	for _, el := range project.SelectElements("SrcDir") {
		if dir := el.Text(); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// usableSourceLines returns the bug's direct-child SourceLine elements that
// carry a source path and a plausible start line, in document order.
func usableSourceLines(bugEl *etree.Element) []*etree.Element {
	var lines []*etree.Element
	for _, sl := range bugEl.SelectElements("SourceLine") {
		start, _ := strconv.Atoi(sl.SelectAttrValue("start", ""))
		if sl.SelectAttrValue("sourcepath", "") == "" || start < 1 {
			continue
		}
		lines = append(lines, sl)
	}
	return lines
}

// pickPrimary prefers the SourceLine marked primary="true"; without one the
// first usable line stands in.
func pickPrimary(lines []*etree.Element) *etree.Element {
	for _, sl := range lines {
		if sl.SelectAttrValue("primary", "") == "true" {
			return sl
		}
	}
	return lines[0]
}

// resolveSource probes each SrcDir for sourcepath and returns the first
// existing file; otherwise the raw sourcepath is kept for the shared
// root-relative resolution.
func resolveSource(sourcepath string, srcDirs []string) string {
	if sourcepath == "" {
		return sourcepath
	}
	for _, dir := range srcDirs {
		candidate := filepath.Join(dir, sourcepath)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return sourcepath
}

func message(bugEl *etree.Element, checker string) string {
	if el := bugEl.SelectElement("LongMessage"); el != nil && el.Text() != "" {
		return el.Text()
	}
	if el := bugEl.SelectElement("ShortMessage"); el != nil && el.Text() != "" {
		return el.Text()
	}
	return checker
}

func eventMessage(sl *etree.Element) string {
	if role := sl.SelectAttrValue("role", ""); role != "" {
		return role
	}
	return "related source line"
}

// mapPriority translates SpotBugs confidence priorities: 1 is high
// confidence, 2 medium, 3 low.
func mapPriority(priority string) report.Severity {
	switch priority {
	case "1":
		return report.SeverityError
	case "2":
		return report.SeverityWarning
	case "3":
		return report.SeverityStyle
	default:
		return report.SeverityUnspecified
	}
}
