package converter

import "fmt"

// ParseError reports input that a strict-format converter could not decode.
// Unlike a Warning it is fatal: the document as a whole is unusable, so no
// diagnostics are produced.
type ParseError struct {
	Tool   string // Tool id of the converter that rejected the input.
	Line   int    // 1-based input line when the decoder reports one, zero otherwise.
	Reason string // Decoder-level description of the problem.
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: malformed input at line %d: %s", e.Tool, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: malformed input: %s", e.Tool, e.Reason)
}
