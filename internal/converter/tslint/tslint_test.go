package tslint_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
	"github.com/triagekit/triage-cli/internal/converter/tslint"
)

const sampleOutput = `[
  {
    "endPosition": {"character": 13, "line": 2, "position": 43},
    "failure": "Identifier 'result' is never reassigned; use 'const' instead of 'let'.",
    "name": "src/index.ts",
    "ruleName": "prefer-const",
    "ruleSeverity": "ERROR",
    "startPosition": {"character": 6, "line": 2, "position": 36}
  },
  {
    "endPosition": {"character": 0, "line": 10, "position": 301},
    "failure": "file should end with a newline",
    "name": "src/index.ts",
    "ruleName": "eofline",
    "ruleSeverity": "WARNING",
    "startPosition": {"character": 0, "line": 10, "position": 301}
  }
]`

func TestParse(t *testing.T) {
	res, err := tslint.New().Parse(strings.NewReader(sampleOutput), "")
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 2)

	first := res.Diagnostics[0]
	assert.Equal(t, "src/index.ts", first.FilePath)
	assert.Equal(t, 3, first.Line, "0-based tslint line shifts to 1-based")
	assert.Equal(t, 7, first.Column, "0-based tslint character shifts to 1-based")
	assert.Equal(t, "prefer-const", first.CheckerID)
	assert.Equal(t, report.SeverityError, first.Severity)

	second := res.Diagnostics[1]
	assert.Equal(t, 11, second.Line)
	assert.Equal(t, report.SeverityWarning, second.Severity)
}

func TestParse_SeverityMappingIsTotal(t *testing.T) {
	tests := []struct {
		sev  string
		want report.Severity
	}{
		{"ERROR", report.SeverityError},
		{"error", report.SeverityError},
		{"WARNING", report.SeverityWarning},
		{"OFF", report.SeverityInfo},
		{"whatever", report.SeverityUnspecified},
		{"", report.SeverityUnspecified},
	}

	for _, tc := range tests {
		t.Run("severity "+tc.sev, func(t *testing.T) {
			doc := `[{"name": "a.ts", "ruleName": "r", "failure": "f", "ruleSeverity": "` + tc.sev + `", "startPosition": {"line": 0, "character": 0}}]`
			res, err := tslint.New().Parse(strings.NewReader(doc), "")
			require.NoError(t, err)
			require.Len(t, res.Diagnostics, 1)
			assert.Equal(t, tc.want, res.Diagnostics[0].Severity)
		})
	}
}

func TestParse_MissingRuleNameFallsBack(t *testing.T) {
	doc := `[{"name": "a.ts", "failure": "f", "ruleSeverity": "ERROR", "startPosition": {"line": 4, "character": 2}}]`

	res, err := tslint.New().Parse(strings.NewReader(doc), "")
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "tslint", res.Diagnostics[0].CheckerID)
}

func TestParse_SkipsEntriesWithoutFileOrMessage(t *testing.T) {
	doc := `[
	  {"name": "", "failure": "f", "ruleSeverity": "ERROR", "startPosition": {"line": 0, "character": 0}},
	  {"name": "a.ts", "failure": "", "ruleSeverity": "ERROR", "startPosition": {"line": 0, "character": 0}}
	]`

	res, err := tslint.New().Parse(strings.NewReader(doc), "")
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Len(t, res.Warnings, 2)
}

func TestParse_MalformedDocumentIsFatal(t *testing.T) {
	_, err := tslint.New().Parse(strings.NewReader(`{"name": "not an array"}`), "")
	require.Error(t, err)

	var perr *converter.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "tslint", perr.Tool)
}
