// Package converter defines the contract every analyzer-output parser
// implements, the shared tolerant-parsing primitives (warnings, line
// scanning, path resolution), and the registry the orchestrator dispatches
// through.
package converter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/triagekit/triage-cli/api/report"
)

// Converter parses the native output of one analysis tool into canonical
// diagnostics. Implementations are stateless values; one instance serves any
// number of Parse calls.
type Converter interface {
	// ToolID returns the stable registry key, e.g. "clang-tidy". It doubles
	// as the analyzer name recorded on every diagnostic.
	ToolID() string

	// DisplayName returns the human-readable tool name for help output.
	DisplayName() string

	// URL points at the tool's documentation for help output.
	URL() string

	// Parse reads one native output document from r. Relative source paths
	// are resolved against root; an empty root keeps them as written.
	// Tolerant (line-oriented) formats never fail on malformed input: they
	// skip it and record a Warning. Strict (structured-tree) formats return
	// a *ParseError naming the offending position.
	Parse(r io.Reader, root string) (*Result, error)
}

// Result carries everything one Parse call produced: the diagnostics in
// input order and the anomalies that were tolerated along the way.
type Result struct {
	Diagnostics []report.Diagnostic
	Warnings    []Warning
}

// Warning records an input anomaly a converter skipped over: an
// unrecognizable line, a finding without a usable location, a source file
// that does not exist locally. Warnings surface in the conversion summary
// but never fail a run.
type Warning struct {
	Line   int    // 1-based input line, zero when the anomaly is not line-addressable.
	Reason string // Human-readable description of what was skipped and why.
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s", w.Line, w.Reason)
	}
	return w.Reason
}

// Warnf appends a formatted Warning. line may be zero for anomalies that are
// not tied to a specific input line.
func (r *Result) Warnf(line int, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Line: line, Reason: fmt.Sprintf(format, args...)})
}

// Record applies the shared path policy to d and appends it to the result:
// the primary path and every path-event file are resolved through rv, and a
// primary path that does not name an existing file marks the diagnostic
// unresolved and records a Warning against input line. Diagnostics are
// appended as-is otherwise; duplicates are preserved.
func (r *Result) Record(rv Resolver, d report.Diagnostic, line int) {
	resolved, ok := rv.Locate(d.FilePath)
	d.FilePath = resolved
	if !ok {
		d.SourceUnresolved = true
		r.Warnf(line, "source file %q not found, recording as unresolved", resolved)
	}
	for i := range d.PathEvents {
		d.PathEvents[i].File = rv.Resolve(d.PathEvents[i].File)
	}
	r.Diagnostics = append(r.Diagnostics, d)
}

// Excerpt shortens an input line for inclusion in a warning message, so one
// pathological line cannot bloat the conversion summary.
func Excerpt(line string) string {
	const max = 120
	if len(line) <= max {
		return line
	}
	return line[:max] + "..."
}

// MaxLineBytes caps a single scanned input line. Sanitizer traces and
// generated-code diagnostics can run long, but anything past this is not a
// line format we understand anyway.
const MaxLineBytes = 1 << 20

// LineScanner iterates the lines of analyzer output. It differs from
// bufio.Scanner in how it treats a line past MaxLineBytes: instead of failing
// the whole stream with ErrTooLong, it keeps the first MaxLineBytes of the
// line, drains the rest up to the newline, and flags the token via Truncated
// so the caller can skip it with a warning and carry on.
type LineScanner struct {
	r         *bufio.Reader
	line      []byte
	truncated bool
	err       error
	done      bool
}

// NewLineScanner returns a line scanner sized for analyzer output, which
// regularly exceeds bufio's default 64 KiB token limit.
func NewLineScanner(r io.Reader) *LineScanner {
	return &LineScanner{r: bufio.NewReaderSize(r, 64*1024)}
}

// Scan advances to the next line. It returns false at end of input or on a
// read error; Err reports the latter.
func (s *LineScanner) Scan() bool {
	if s.done {
		return false
	}
	s.line = s.line[:0]
	s.truncated = false

	for {
		chunk, err := s.r.ReadSlice('\n')
		if err == nil {
			// The newline ends the line but is not content, so it does not
			// count against the cap.
			chunk = chunk[:len(chunk)-1]
		}
		if room := MaxLineBytes - len(s.line); len(chunk) <= room {
			s.line = append(s.line, chunk...)
		} else {
			s.line = append(s.line, chunk[:room]...)
			s.truncated = true
		}

		switch err {
		case nil:
			if !s.truncated {
				s.line = dropCR(s.line)
			}
			return true
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			s.done = true
			if len(s.line) == 0 {
				return false
			}
			if !s.truncated {
				s.line = dropCR(s.line)
			}
			return true
		default:
			s.done = true
			s.err = err
			return len(s.line) > 0
		}
	}
}

// Text returns the current line without its trailing end-of-line marker.
func (s *LineScanner) Text() string { return string(s.line) }

// Truncated reports whether the current line's content exceeded MaxLineBytes
// and was cut. Truncated lines are not trustworthy input; callers skip them.
func (s *LineScanner) Truncated() bool { return s.truncated }

// Err returns the first non-EOF error encountered while reading.
func (s *LineScanner) Err() error { return s.err }

func dropCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}
