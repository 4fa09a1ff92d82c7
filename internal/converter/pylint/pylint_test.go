package pylint_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
	"github.com/triagekit/triage-cli/internal/converter/pylint"
)

const sampleOutput = `[
  {
    "type": "convention",
    "module": "app",
    "path": "app.py",
    "line": 1,
    "column": 0,
    "symbol": "missing-module-docstring",
    "message": "Missing module docstring",
    "message-id": "C0114"
  },
  {
    "type": "error",
    "module": "app",
    "path": "app.py",
    "line": 9,
    "column": 4,
    "symbol": "undefined-variable",
    "message": "Undefined variable 'foo'",
    "message-id": "E0602"
  },
  {
    "type": "warning",
    "module": "app",
    "path": "app.py",
    "line": 12,
    "column": 0,
    "symbol": "",
    "message": "Unused import os",
    "message-id": "W0611"
  }
]`

func TestParse(t *testing.T) {
	res, err := pylint.New().Parse(strings.NewReader(sampleOutput), "")
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 3)

	first := res.Diagnostics[0]
	assert.Equal(t, "app.py", first.FilePath)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, 1, first.Column, "0-based pylint column shifts to 1-based")
	assert.Equal(t, "missing-module-docstring", first.CheckerID)
	assert.Equal(t, report.SeverityStyle, first.Severity)

	second := res.Diagnostics[1]
	assert.Equal(t, report.SeverityError, second.Severity)
	assert.Equal(t, 5, second.Column)

	third := res.Diagnostics[2]
	assert.Equal(t, "W0611", third.CheckerID, "empty symbol falls back to message id")
	assert.Equal(t, report.SeverityWarning, third.Severity)
}

func TestParse_SeverityMappingIsTotal(t *testing.T) {
	tests := []struct {
		typ  string
		want report.Severity
	}{
		{"fatal", report.SeverityError},
		{"error", report.SeverityError},
		{"warning", report.SeverityWarning},
		{"convention", report.SeverityStyle},
		{"refactor", report.SeverityStyle},
		{"info", report.SeverityInfo},
		{"Warning", report.SeverityWarning},
		{"brand-new-kind", report.SeverityUnspecified},
		{"", report.SeverityUnspecified},
	}

	for _, tc := range tests {
		t.Run("type "+tc.typ, func(t *testing.T) {
			doc := `[{"type": "` + tc.typ + `", "path": "a.py", "line": 1, "column": 0, "symbol": "s", "message": "m", "message-id": "X1"}]`
			res, err := pylint.New().Parse(strings.NewReader(doc), "")
			require.NoError(t, err)
			require.Len(t, res.Diagnostics, 1)
			assert.Equal(t, tc.want, res.Diagnostics[0].Severity)
		})
	}
}

func TestParse_MalformedDocumentIsFatal(t *testing.T) {
	_, err := pylint.New().Parse(strings.NewReader(`[{"type": "error",`), "")
	require.Error(t, err)

	var perr *converter.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "pylint", perr.Tool)
}

func TestParse_NotAnArrayIsFatal(t *testing.T) {
	_, err := pylint.New().Parse(strings.NewReader(`{"type": "error"}`), "")
	require.Error(t, err)

	var perr *converter.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestParse_EntryWithoutLocationSkipped(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("x = 1\n"), 0o644))
	doc := `[
	  {"type": "error", "path": "", "line": 1, "column": 0, "symbol": "s", "message": "m"},
	  {"type": "error", "path": "a.py", "line": 0, "column": 0, "symbol": "s", "message": "m"},
	  {"type": "error", "path": "a.py", "line": 2, "column": 0, "symbol": "s", "message": "m"}
	]`

	res, err := pylint.New().Parse(strings.NewReader(doc), root)
	require.NoError(t, err)
	assert.Len(t, res.Diagnostics, 1)
	assert.Len(t, res.Warnings, 2)
}

func TestParse_EmptyArray(t *testing.T) {
	res, err := pylint.New().Parse(strings.NewReader(`[]`), "")
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Empty(t, res.Warnings)
}
