package converter

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Resolver maps analyzer-reported source paths onto the local tree. The zero
// value (no root) records relative paths as written.
type Resolver struct {
	// Root is the analysis root directory relative paths are joined onto.
	Root string
}

// Resolve normalizes p: absolute paths are cleaned, relative paths are
// joined onto Root when one is set and cleaned otherwise. Paths that point
// outside Root (via "..") are retained as resolved; containment is not this
// tool's concern.
func (rv Resolver) Resolve(p string) string {
	switch {
	case p == "":
		return p
	case filepath.IsAbs(p):
		return filepath.Clean(p)
	case rv.Root != "":
		return filepath.Join(rv.Root, p)
	default:
		return filepath.Clean(p)
	}
}

// Locate resolves p and reports whether the result names an existing regular
// file. The resolved path is returned either way so it can be recorded on
// the diagnostic.
func (rv Resolver) Locate(p string) (string, bool) {
	resolved := rv.Resolve(p)
	if resolved == "" {
		return resolved, false
	}
	info, err := os.Stat(resolved)
	return resolved, err == nil && info.Mode().IsRegular()
}

var (
	fileLineColRe = regexp.MustCompile(`^(.+):(\d+):(\d+)$`)
	fileLineRe    = regexp.MustCompile(`^(.+):(\d+)$`)
)

// SplitLocation splits a trailing "path:line[:col]" token of the kind
// sanitizer stack frames and single-line diagnostics carry. The path part is
// matched greedily, so embedded colons split at the rightmost numeric
// suffix. Column is zero when absent. ok is false when s carries no
// line-number suffix at all.
func SplitLocation(s string) (file string, line, col int, ok bool) {
	if m := fileLineColRe.FindStringSubmatch(s); m != nil {
		line, _ = strconv.Atoi(m[2])
		col, _ = strconv.Atoi(m[3])
		return m[1], line, col, true
	}
	if m := fileLineRe.FindStringSubmatch(s); m != nil {
		line, _ = strconv.Atoi(m[2])
		return m[1], line, 0, true
	}
	return "", 0, 0, false
}
