package sanitizer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

// ubsanRe matches UndefinedBehaviorSanitizer's one-line reports:
//
//	src/overflow.c:7:13: runtime error: signed integer overflow: ...
var ubsanRe = regexp.MustCompile(`^(.+?):(\d+):(\d+): runtime error: (.+)$`)

// UBSan converts UndefinedBehaviorSanitizer output. UBSan has no block
// structure; each runtime error is one line interleaved with ordinary
// program output, so everything that is not a report is skipped silently and
// only near misses (lines mentioning a runtime error that fail the grammar)
// produce a warning.
type UBSan struct{}

// NewUndefined returns the UndefinedBehaviorSanitizer converter.
func NewUndefined() *UBSan { return &UBSan{} }

func (*UBSan) ToolID() string      { return "ubsan" }
func (*UBSan) DisplayName() string { return "UndefinedBehaviorSanitizer" }
func (*UBSan) URL() string {
	return "https://clang.llvm.org/docs/UndefinedBehaviorSanitizer.html"
}

func (p *UBSan) Parse(r io.Reader, root string) (*converter.Result, error) {
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

		m := ubsanRe.FindStringSubmatch(line)
		if m == nil {
			if strings.Contains(line, "runtime error") {
				res.Warnf(lineNo, "unparsable runtime error line %q skipped", converter.Excerpt(line))
			}
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
			CheckerID:    p.DisplayName(),
			Severity:     report.SeverityError,
			Message:      m[4],
			AnalyzerName: p.ToolID(),
		}, lineNo)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ubsan output: %w", err)
	}
	return res, nil
}
