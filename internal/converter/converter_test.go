package converter

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagekit/triage-cli/api/report"
)

func TestWarningString(t *testing.T) {
	assert.Equal(t, "line 4: skipped", Warning{Line: 4, Reason: "skipped"}.String())
	assert.Equal(t, "no location", Warning{Reason: "no location"}.String())
}

func TestResultWarnf(t *testing.T) {
	var res Result
	res.Warnf(12, "unrecognized line %q", "garbage")
	res.Warnf(0, "document-level anomaly")

	require.Len(t, res.Warnings, 2)
	assert.Equal(t, Warning{Line: 12, Reason: `unrecognized line "garbage"`}, res.Warnings[0])
	assert.Equal(t, 0, res.Warnings[1].Line)
}

func TestResultRecord(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.c"), []byte("x"), 0o644))

	var res Result
	rv := Resolver{Root: root}

	res.Record(rv, report.Diagnostic{
		FilePath:  "a.c",
		Line:      1,
		CheckerID: "chk",
		Severity:  report.SeverityError,
		Message:   "boom",
		PathEvents: []report.PathEvent{
			{File: "a.c", Line: 1, Message: "step"},
		},
	}, 3)

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, filepath.Join(root, "a.c"), d.FilePath)
	assert.False(t, d.SourceUnresolved)
	assert.Equal(t, filepath.Join(root, "a.c"), d.PathEvents[0].File, "path-event files resolve too")
	assert.Empty(t, res.Warnings)
}

func TestResultRecord_UnresolvedSource(t *testing.T) {
	var res Result
	rv := Resolver{Root: t.TempDir()}

	res.Record(rv, report.Diagnostic{
		FilePath:  "missing.c",
		Line:      9,
		CheckerID: "chk",
		Severity:  report.SeverityWarning,
		Message:   "still recorded",
	}, 7)

	require.Len(t, res.Diagnostics, 1)
	assert.True(t, res.Diagnostics[0].SourceUnresolved, "missing files are recorded, not dropped")
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 7, res.Warnings[0].Line)
	assert.Contains(t, res.Warnings[0].Reason, "missing.c")
}

func TestResultRecord_KeepsDuplicates(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.c"), []byte("x"), 0o644))

	var res Result
	rv := Resolver{Root: root}
	d := report.Diagnostic{FilePath: "a.c", Line: 2, CheckerID: "chk", Severity: report.SeverityError, Message: "dup"}
	res.Record(rv, d, 1)
	res.Record(rv, d, 2)

	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, res.Diagnostics[0], res.Diagnostics[1])
}

func TestNewLineScanner_LongLines(t *testing.T) {
	long := strings.Repeat("x", 200*1024) // past bufio's default 64 KiB cap
	sc := NewLineScanner(strings.NewReader(long + "\nshort\n"))

	require.True(t, sc.Scan())
	assert.Len(t, sc.Text(), 200*1024)
	assert.False(t, sc.Truncated())
	require.True(t, sc.Scan())
	assert.Equal(t, "short", sc.Text())
	assert.False(t, sc.Scan())
	assert.NoError(t, sc.Err())
}

func TestNewLineScanner_OversizedLines(t *testing.T) {
	huge := strings.Repeat("y", MaxLineBytes+512)

	t.Run("oversized line between intact lines", func(t *testing.T) {
		sc := NewLineScanner(strings.NewReader("first\n" + huge + "\nlast"))

		require.True(t, sc.Scan())
		assert.Equal(t, "first", sc.Text())
		assert.False(t, sc.Truncated())

		require.True(t, sc.Scan(), "an oversized line must not end the scan")
		assert.True(t, sc.Truncated())
		assert.Len(t, sc.Text(), MaxLineBytes)

		require.True(t, sc.Scan(), "scanning resumes after the oversized line")
		assert.Equal(t, "last", sc.Text())
		assert.False(t, sc.Truncated(), "truncation is reported per line")

		assert.False(t, sc.Scan())
		assert.NoError(t, sc.Err())
	})

	t.Run("oversized final line without newline", func(t *testing.T) {
		sc := NewLineScanner(strings.NewReader("ok\n" + huge))

		require.True(t, sc.Scan())
		assert.Equal(t, "ok", sc.Text())

		require.True(t, sc.Scan())
		assert.True(t, sc.Truncated())
		assert.Len(t, sc.Text(), MaxLineBytes)

		assert.False(t, sc.Scan())
		assert.NoError(t, sc.Err())
	})

	t.Run("line of exactly the cap stays intact", func(t *testing.T) {
		exact := strings.Repeat("z", MaxLineBytes)
		sc := NewLineScanner(strings.NewReader(exact + "\nnext\n"))

		require.True(t, sc.Scan())
		assert.False(t, sc.Truncated(), "the newline does not count against the cap")
		assert.Len(t, sc.Text(), MaxLineBytes)

		require.True(t, sc.Scan())
		assert.Equal(t, "next", sc.Text())
	})
}

func TestNewLineScanner_CRLF(t *testing.T) {
	sc := NewLineScanner(strings.NewReader("one\r\ntwo\r"))

	require.True(t, sc.Scan())
	assert.Equal(t, "one", sc.Text())
	require.True(t, sc.Scan())
	assert.Equal(t, "two", sc.Text(), "a bare trailing CR at EOF is stripped like bufio.ScanLines does")
	assert.False(t, sc.Scan())
}

func TestParseErrorMessage(t *testing.T) {
	withLine := &ParseError{Tool: "pylint", Line: 3, Reason: "unexpected token"}
	assert.Equal(t, "pylint: malformed input at line 3: unexpected token", withLine.Error())

	noLine := &ParseError{Tool: "infer", Reason: "not a JSON array"}
	assert.Equal(t, "infer: malformed input: not a JSON array", noLine.Error())
}

// fakeConverter backs the registry tests.
type fakeConverter struct {
	id string
}

func (f fakeConverter) ToolID() string      { return f.id }
func (f fakeConverter) DisplayName() string { return strings.ToUpper(f.id) }
func (f fakeConverter) URL() string         { return "https://example.com/" + f.id }
func (f fakeConverter) Parse(io.Reader, string) (*Result, error) {
	return &Result{}, nil
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(fakeConverter{"zzz"}, fakeConverter{"aaa"}, fakeConverter{"mmm"})

	c, ok := reg.Get("mmm")
	require.True(t, ok)
	assert.Equal(t, "mmm", c.ToolID())

	_, ok = reg.Get("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"aaa", "mmm", "zzz"}, reg.ToolIDs())

	all := reg.All()
	require.Len(t, all, 3)
	assert.Equal(t, "aaa", all[0].ToolID())
	assert.Equal(t, "zzz", all[2].ToolID())
}

func TestRegistry_DuplicateIDPanics(t *testing.T) {
	assert.PanicsWithValue(t, `converter: duplicate tool id "dup"`, func() {
		NewRegistry(fakeConverter{"dup"}, fakeConverter{"dup"})
	})
}
