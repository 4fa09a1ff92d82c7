package sanitizer

import "regexp"

// tsanHeaderRe matches the opening line of a ThreadSanitizer report:
//
//	WARNING: ThreadSanitizer: data race (pid=12345)
//
// Unlike ASan/MSan the pid sits at the end and the checker phrase ("data
// race", "thread leak", "deadlock") is taken verbatim.
var tsanHeaderRe = regexp.MustCompile(`^(?:==\d+==)?WARNING: ThreadSanitizer: (.+?) \(pid=\d+\)$`)

// NewThread returns the ThreadSanitizer converter.
func NewThread() *BlockParser {
	return &BlockParser{
		id:   "tsan",
		name: "ThreadSanitizer",
		url:  "https://clang.llvm.org/docs/ThreadSanitizer.html",
		header: func(line string) (string, string, bool) {
			m := tsanHeaderRe.FindStringSubmatch(line)
			if m == nil {
				return "", "", false
			}
			return m[1], m[1], true
		},
	}
}
