package sanitizer

import "regexp"

// msanHeaderRe matches the opening line of a MemorySanitizer report:
//
//	==2382==WARNING: MemorySanitizer: use-of-uninitialized-value
//
// MSan reports exactly one condition, so the checker is fixed.
var msanHeaderRe = regexp.MustCompile(`^==\d+==\s*WARNING: MemorySanitizer: (use-of-uninitialized-value.*)$`)

// NewMemory returns the MemorySanitizer converter.
func NewMemory() *BlockParser {
	return &BlockParser{
		id:   "msan",
		name: "MemorySanitizer",
		url:  "https://clang.llvm.org/docs/MemorySanitizer.html",
		header: func(line string) (string, string, bool) {
			m := msanHeaderRe.FindStringSubmatch(line)
			if m == nil {
				return "", "", false
			}
			return "use-of-uninitialized-value", m[1], true
		},
	}
}
