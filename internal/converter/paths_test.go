package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverResolve(t *testing.T) {
	tests := []struct {
		name string
		root string
		in   string
		want string
	}{
		{"relative no root stays verbatim", "", "src/a.c", "src/a.c"},
		{"relative no root is cleaned", "", "./src//a.c", "src/a.c"},
		{"relative joins root", "/proj", "src/a.c", "/proj/src/a.c"},
		{"absolute ignores root", "/proj", "/opt/src/a.c", "/opt/src/a.c"},
		{"absolute is cleaned", "", "/opt//src/../src/a.c", "/opt/src/a.c"},
		{"dotdot escapes root and is retained", "/proj/src", "../lib/b.c", "/proj/lib/b.c"},
		{"empty stays empty", "/proj", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rv := Resolver{Root: tc.root}
			assert.Equal(t, tc.want, rv.Resolve(tc.in))
		})
	}
}

func TestResolverLocate(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.c"), []byte("int x;\n"), 0o644))

	rv := Resolver{Root: root}

	resolved, ok := rv.Locate("src/a.c")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src", "a.c"), resolved)

	resolved, ok = rv.Locate("src/missing.c")
	assert.False(t, ok)
	assert.Equal(t, filepath.Join(root, "src", "missing.c"), resolved, "unresolved paths are still recorded")

	// A directory is not a source file.
	_, ok = rv.Locate("src")
	assert.False(t, ok)
}

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantFile string
		wantLine int
		wantCol  int
		wantOK   bool
	}{
		{"file line col", "src/a.c:10:5", "src/a.c", 10, 5, true},
		{"file line only", "src/a.c:10", "src/a.c", 10, 0, true},
		{"absolute path", "/opt/src/a.c:3:1", "/opt/src/a.c", 3, 1, true},
		{"colon in path splits rightmost", "/x:y/a.c:7:2", "/x:y/a.c", 7, 2, true},
		{"no location", "src/a.c", "", 0, 0, false},
		{"trailing colon", "src/a.c:", "", 0, 0, false},
		{"non-numeric line", "src/a.c:ten", "", 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			file, line, col, ok := SplitLocation(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantFile, file)
			assert.Equal(t, tc.wantLine, line)
			assert.Equal(t, tc.wantCol, col)
		})
	}
}
