package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagekit/triage-cli/api/report"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want report.Severity
	}{
		{"error", "error", report.SeverityError},
		{"warning", "warning", report.SeverityWarning},
		{"style", "style", report.SeverityStyle},
		{"performance", "performance", report.SeverityPerformance},
		{"portability", "portability", report.SeverityPortability},
		{"information", "information", report.SeverityInfo},
		{"unspecified", "unspecified", report.SeverityUnspecified},
		{"mixed case", "Error", report.SeverityError},
		{"surrounding space", "  warning\t", report.SeverityWarning},
		{"unknown word", "catastrophic", report.SeverityUnspecified},
		{"cppcheck debug level", "debug", report.SeverityUnspecified},
		{"empty", "", report.SeverityUnspecified},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, report.ParseSeverity(tc.in))
		})
	}
}

func TestSortDiagnostics(t *testing.T) {
	diags := []report.Diagnostic{
		{FilePath: "a.c", Line: 20, Column: 1, CheckerID: "z-check", Message: "late"},
		{FilePath: "a.c", Line: 5, Column: 9, CheckerID: "b-check", Message: "second"},
		{FilePath: "a.c", Line: 5, Column: 2, CheckerID: "b-check", Message: "first"},
		{FilePath: "a.c", Line: 5, Column: 2, CheckerID: "a-check", Message: "first"},
	}

	report.SortDiagnostics(diags)

	require.Len(t, diags, 4)
	assert.Equal(t, "a-check", diags[0].CheckerID)
	assert.Equal(t, "b-check", diags[1].CheckerID)
	assert.Equal(t, 9, diags[2].Column)
	assert.Equal(t, 20, diags[3].Line)
}

// Identical duplicates must survive sorting; the serializer relies on this
// to keep repeated findings visible in the artifact.
func TestSortDiagnostics_KeepsDuplicates(t *testing.T) {
	dup := report.Diagnostic{FilePath: "a.c", Line: 3, Column: 1, CheckerID: "dup", Message: "same"}
	diags := []report.Diagnostic{dup, dup, dup}

	report.SortDiagnostics(diags)

	require.Len(t, diags, 3)
	for _, d := range diags {
		assert.Equal(t, dup, d)
	}
}

func TestGroupByFile(t *testing.T) {
	diags := []report.Diagnostic{
		{FilePath: "src/b.c", Line: 1, CheckerID: "c1", Message: "m1"},
		{FilePath: "src/a.c", Line: 2, CheckerID: "c2", Message: "m2"},
		{FilePath: "src/b.c", Line: 3, CheckerID: "c3", Message: "m3"},
	}

	files, groups := report.GroupByFile(diags)

	assert.Equal(t, []string{"src/a.c", "src/b.c"}, files)
	require.Len(t, groups["src/b.c"], 2)
	// Relative order within a file follows input order.
	assert.Equal(t, 1, groups["src/b.c"][0].Line)
	assert.Equal(t, 3, groups["src/b.c"][1].Line)
	require.Len(t, groups["src/a.c"], 1)
}

func TestGroupByFile_Empty(t *testing.T) {
	files, groups := report.GroupByFile(nil)
	assert.Empty(t, files)
	assert.Empty(t, groups)
}
