package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/json-iterator/go"
)

// FormatVersion is the artifact schema version written by this build. It is
// embedded in every artifact so downstream readers can reject documents from
// an incompatible future layout.
const FormatVersion = 1

// jsonCodec is configured for deterministic output: map keys are sorted, so
// encoding the same artifact twice yields byte-identical documents.
var jsonCodec = json.ConfigCompatibleWithStandardLibrary

// Artifact is the persisted form of one conversion run's findings for one
// source file: a self-describing JSON document holding the diagnostics that
// point at that file plus the run metadata supplied at conversion time.
type Artifact struct {
	FormatVersion int               `json:"format_version"`     // Schema version, see FormatVersion.
	SourceFile    string            `json:"source_file"`        // Path exactly as recorded on the diagnostics.
	Analyzer      string            `json:"analyzer"`           // Tool id of the converter that produced the run.
	Metadata      map[string]string `json:"metadata,omitempty"` // Validated run metadata, attached verbatim.
	Diagnostics   []DiagnosticEntry `json:"diagnostics"`        // Findings for SourceFile, in serialization order.
}

// DiagnosticEntry is the artifact-level encoding of a single Diagnostic.
// FilePath and AnalyzerName live on the enclosing Artifact and are not
// repeated per entry.
type DiagnosticEntry struct {
	CheckerID  string      `json:"checker"`
	Severity   Severity    `json:"severity"`
	Line       int         `json:"line"`
	Column     int         `json:"column,omitempty"`
	Message    string      `json:"message"`
	Unresolved bool        `json:"unresolved,omitempty"`
	Path       []PathEvent `json:"path,omitempty"`
}

// NewArtifact builds the artifact for sourceFile from diags, which must all
// point at that file. Metadata is attached as given; entry order follows the
// order of diags.
func NewArtifact(analyzer, sourceFile string, metadata map[string]string, diags []Diagnostic) *Artifact {
	a := &Artifact{
		FormatVersion: FormatVersion,
		SourceFile:    sourceFile,
		Analyzer:      analyzer,
		Metadata:      metadata,
		Diagnostics:   make([]DiagnosticEntry, 0, len(diags)),
	}
	for _, d := range diags {
		a.Diagnostics = append(a.Diagnostics, DiagnosticEntry{
			CheckerID:  d.CheckerID,
			Severity:   d.Severity,
			Line:       d.Line,
			Column:     d.Column,
			Message:    d.Message,
			Unresolved: d.SourceUnresolved,
			Path:       d.PathEvents,
		})
	}
	return a
}

// ToDiagnostics reconstitutes the canonical diagnostics from the artifact,
// reattaching the artifact-level source file and analyzer name to each entry.
func (a *Artifact) ToDiagnostics() []Diagnostic {
	diags := make([]Diagnostic, 0, len(a.Diagnostics))
	for _, e := range a.Diagnostics {
		diags = append(diags, Diagnostic{
			FilePath:         a.SourceFile,
			Line:             e.Line,
			Column:           e.Column,
			CheckerID:        e.CheckerID,
			Severity:         e.Severity,
			Message:          e.Message,
			PathEvents:       e.Path,
			AnalyzerName:     a.Analyzer,
			SourceUnresolved: e.Unresolved,
		})
	}
	return diags
}

// FileName derives the artifact's on-disk name:
//
//	<source base name>_<tool id>_<first 8 hex chars of sha256(source path)>.json
//
// The hash is computed over the full recorded path, so two sources with the
// same base name in different directories never collide, while re-converting
// the same input deterministically addresses the same artifact.
func (a *Artifact) FileName() string {
	sum := sha256.Sum256([]byte(a.SourceFile))
	return fmt.Sprintf("%s_%s_%s.json", filepath.Base(a.SourceFile), a.Analyzer, hex.EncodeToString(sum[:])[:8])
}

// Encode writes the artifact to w as two-space-indented JSON with a trailing
// newline. Output is byte-deterministic for equal artifacts: struct fields
// encode in declaration order and metadata keys are sorted.
func (a *Artifact) Encode(w io.Writer) error {
	enc := jsonCodec.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encoding artifact for %s: %w", a.SourceFile, err)
	}
	return nil
}

// Decode reads one artifact document from r and rejects unknown schema
// versions.
func Decode(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := jsonCodec.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	if a.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported artifact format version %d (want %d)", a.FormatVersion, FormatVersion)
	}
	return &a, nil
}

// DecodeFile reads the artifact stored at path.
func DecodeFile(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()
	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}
