// Package sanitizer converts the runtime reports of the LLVM sanitizers.
// AddressSanitizer, MemorySanitizer and ThreadSanitizer print multi-line
// blocks (header, stack frames, summary) that a small state machine walks in
// a single forward pass; UndefinedBehaviorSanitizer prints one-line runtime
// errors and gets a plain line parser.
package sanitizer

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
)

// state tracks where in a sanitizer block the scanner currently is.
type state int

const (
	// stateSeekingHeader skips program output until a report header.
	stateSeekingHeader state = iota
	// stateInBlock collects stack frames for the open report.
	stateInBlock
	// stateBlockClosed drains trailing block decoration (shadow dumps,
	// summary remainder) after the report was flushed.
	stateBlockClosed
)

var (
	frameRe = regexp.MustCompile(`^\s+#\d+\s+\S`)
	// ruleRe matches the ==== separator ThreadSanitizer wraps reports in.
	ruleRe = regexp.MustCompile(`^={8,}$`)
)

// headerFunc recognizes the opening line of one tool's report block and
// extracts the checker name and message from it.
type headerFunc func(line string) (checker, message string, ok bool)

// BlockParser is the shared converter for sanitizers that report multi-line
// blocks. The per-tool differences are confined to the header line; frames
// and terminators share one grammar.
type BlockParser struct {
	id     string
	name   string
	url    string
	header headerFunc
}

func (p *BlockParser) ToolID() string      { return p.id }
func (p *BlockParser) DisplayName() string { return p.name }
func (p *BlockParser) URL() string         { return p.url }

// Parse walks r with the block state machine. A block's first
// source-located frame becomes the primary position and every located frame
// becomes a path event in stack order. Blocks whose frames never touch a
// source file are skipped with a warning; everything outside a block is
// program output and stays silent.
func (p *BlockParser) Parse(r io.Reader, root string) (*converter.Result, error) {
	res := &converter.Result{}
	rv := converter.Resolver{Root: root}

	var (
		st         = stateSeekingHeader
		checker    string
		message    string
		headerLine int
		events     []report.PathEvent
	)

	flush := func() {
		defer func() { checker, message, events = "", "", nil }()
		if checker == "" {
			return
		}
		if len(events) == 0 {
			res.Warnf(headerLine, "%s block has no source-located frame, skipped", checker)
			return
		}
		res.Record(rv, report.Diagnostic{
			FilePath:     events[0].File,
			Line:         events[0].Line,
			Column:       events[0].Column,
			CheckerID:    checker,
			Severity:     report.SeverityError,
			Message:      message,
			PathEvents:   events,
			AnalyzerName: p.id,
		}, headerLine)
	}

	sc := converter.NewLineScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if sc.Truncated() {
			res.Warnf(lineNo, "line longer than %d bytes skipped", converter.MaxLineBytes)
			continue
		}
		line := sc.Text()

		// A new header always opens a fresh block, whatever state the
		// machine is in; a missing terminator must not swallow the next
		// report.
		if c, m, ok := p.header(line); ok {
			flush()
			checker, message, headerLine = c, m, lineNo
			st = stateInBlock
			continue
		}

		switch st {
		case stateSeekingHeader:
			// Program output between reports.

		case stateInBlock:
			switch {
			case frameRe.MatchString(line):
				if ev, ok := parseFrame(line); ok {
					events = append(events, ev)
				}
			case strings.HasPrefix(line, "SUMMARY:"):
				flush()
				st = stateBlockClosed
			case ruleRe.MatchString(line):
				flush()
				st = stateSeekingHeader
			default:
				// Block narration ("READ of size 4 at ...", "freed by
				// thread T0 here:", blank separators between stacks); not
				// a frame, not a terminator.
			}

		case stateBlockClosed:
			if ruleRe.MatchString(line) || line == "" {
				st = stateSeekingHeader
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s output: %w", p.id, err)
	}
	flush()
	return res, nil
}

// parseFrame extracts the source location of one stack-frame line. Frames
// point either at a source position ("func /src/a.c:12:7") or at a module
// offset ("(libc.so.6+0x29d90)"); only the former are locatable. The event
// message keeps the whole trimmed frame line, stack index included, so the
// trace stays readable downstream.
func parseFrame(line string) (report.PathEvent, bool) {
	s := strings.TrimSpace(line)

	// Drop trailing parenthesized module/build-id annotations, leaving a
	// function name's own parentheses ("operator new(unsigned long)") alone.
	trimmed := s
	for strings.HasSuffix(trimmed, ")") {
		i := strings.LastIndex(trimmed, " (")
		if i < 0 {
			break
		}
		trimmed = strings.TrimSpace(trimmed[:i])
	}

	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return report.PathEvent{}, false
	}
	file, ln, col, ok := converter.SplitLocation(fields[len(fields)-1])
	if !ok || ln < 1 {
		return report.PathEvent{}, false
	}
	return report.PathEvent{File: file, Line: ln, Column: col, Message: s}, true
}
