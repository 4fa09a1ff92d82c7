package sanitizer

import (
	"regexp"
	"strings"
)

// asanHeaderRe matches the opening line of an AddressSanitizer report:
//
//	==4513==ERROR: AddressSanitizer: heap-use-after-free on address 0x...
//
// The whole remainder is the message; the checker is the bug family leading
// it, which can run to several words ("SEGV", "attempting double-free",
// "attempting free on address which was not malloc()-ed").
var asanHeaderRe = regexp.MustCompile(`^==\d+==\s*ERROR: AddressSanitizer: (.+)$`)

// asanFamily cuts the bug family out of the header remainder: everything up
// to the address, pc or detail clause that follows it.
func asanFamily(desc string) string {
	cut := len(desc)
	for _, sep := range []string{" on ", " at ", " (", ":"} {
		if i := strings.Index(desc, sep); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(desc[:cut])
}

// NewAddress returns the AddressSanitizer converter.
func NewAddress() *BlockParser {
	return &BlockParser{
		id:   "asan",
		name: "AddressSanitizer",
		url:  "https://clang.llvm.org/docs/AddressSanitizer.html",
		header: func(line string) (string, string, bool) {
			m := asanHeaderRe.FindStringSubmatch(line)
			if m == nil {
				return "", "", false
			}
			desc := strings.TrimSpace(m[1])
			if desc == "" {
				return "", "", false
			}
			checker := asanFamily(desc)
			if checker == "" {
				checker = desc
			}
			return checker, desc, true
		},
	}
}
