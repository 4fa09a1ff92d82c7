// Package report defines the canonical diagnostic model every converter
// normalizes into, and the on-disk artifact form a conversion run persists.
// It is the public contract between this tool and downstream report readers.
package report

import "sort"

// PathEvent is a single step in the execution or data-flow trace attached to
// a diagnostic, such as one sanitizer stack frame or one step of an Infer
// bug trace. Event order carries meaning and is preserved exactly as the
// analyzer emitted it; it is never sorted or deduplicated.
type PathEvent struct {
	File    string `json:"file"`             // Source file of this step, resolved like a diagnostic path.
	Line    int    `json:"line"`             // 1-based line number.
	Column  int    `json:"column,omitempty"` // 1-based column; zero means not reported.
	Message string `json:"message"`          // Human-readable description of the step.
}

// Diagnostic is the canonical in-memory form of one analyzer finding. Every
// converter, whatever its native input format, produces a slice of these.
type Diagnostic struct {
	// FilePath is the source file the finding points at, after resolution
	// against the analysis root. It is recorded even when the file does not
	// exist locally; see SourceUnresolved.
	FilePath string

	Line   int // 1-based line of the primary location.
	Column int // 1-based column; zero means the analyzer reported none.

	// CheckerID names the rule that fired. Converters synthesize a stable
	// fallback (usually the tool id) when the native output omits one, so
	// the field is never empty.
	CheckerID string

	Severity Severity // Canonical severity; never empty, unspecified at worst.
	Message  string   // Human-readable finding text; never empty.

	// PathEvents is the ordered trace leading to the finding, when the
	// analyzer provides one.
	PathEvents []PathEvent

	// AnalyzerName is the tool id of the converter that produced this
	// diagnostic, e.g. "clang-tidy".
	AnalyzerName string

	// SourceUnresolved marks a FilePath that did not name an existing file
	// at conversion time. The diagnostic is kept; downstream consumers
	// decide how to treat it.
	SourceUnresolved bool
}

// SortDiagnostics orders diags by (line, column, checker id, message) using
// a stable sort, so identical duplicates keep their input order and survive
// intact. PathEvents within each diagnostic are left untouched.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.CheckerID != b.CheckerID {
			return a.CheckerID < b.CheckerID
		}
		return a.Message < b.Message
	})
}

// GroupByFile splits diags by their recorded FilePath and returns the
// distinct paths in sorted order alongside the grouping. Grouping preserves
// the relative order of diagnostics within each file.
func GroupByFile(diags []Diagnostic) ([]string, map[string][]Diagnostic) {
	groups := make(map[string][]Diagnostic)
	for _, d := range diags {
		groups[d.FilePath] = append(groups[d.FilePath], d)
	}
	files := make([]string, 0, len(groups))
	for f := range groups {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, groups
}
