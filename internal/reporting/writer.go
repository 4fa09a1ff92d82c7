// Package reporting persists canonical diagnostics as per-source-file JSON
// artifacts inside a report directory.
package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/triagekit/triage-cli/api/report"
)

// Writer serializes one conversion run's diagnostics. Each distinct source
// file yields one artifact; artifacts for other source files already present
// in the directory are never touched, so repeated runs with different tools
// or inputs accumulate.
type Writer struct {
	log *zap.Logger
}

// NewWriter returns a Writer logging through log. A nil logger is replaced
// with a no-op one.
func NewWriter(log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{log: log}
}

// WriteResult summarizes one serialization pass.
type WriteResult struct {
	// FilesWritten holds the artifact paths created or replaced, sorted.
	FilesWritten []string
	// Diagnostics is the total number of entries across those artifacts.
	Diagnostics int
}

// Write persists diags grouped by source file into dir, attaching metadata
// verbatim to every artifact. Within an artifact, diagnostics are ordered by
// (line, column, checker, message) with duplicates preserved; path events
// are never reordered. Encoding is byte-deterministic, so re-running the
// same conversion rewrites identical files. Any filesystem failure aborts
// the pass.
func (w *Writer) Write(dir, toolID string, diags []report.Diagnostic, metadata map[string]string) (*WriteResult, error) {
	files, groups := report.GroupByFile(diags)

	res := &WriteResult{FilesWritten: make([]string, 0, len(files))}
	for _, src := range files {
		group := groups[src]
		report.SortDiagnostics(group)

		artifact := report.NewArtifact(toolID, src, metadata, group)
		path := filepath.Join(dir, artifact.FileName())
		if err := writeAtomic(path, artifact); err != nil {
			return nil, err
		}
		res.FilesWritten = append(res.FilesWritten, path)
		res.Diagnostics += len(group)

		w.log.Debug("artifact written",
			zap.String("source_file", src),
			zap.String("artifact", path),
			zap.Int("diagnostics", len(group)),
		)
	}
	// Writing follows source-file order, but artifact names hash and flatten
	// the source path, so the two orders diverge.
	sort.Strings(res.FilesWritten)
	return res, nil
}

// writeAtomic writes the artifact to a uniquely named temp file in the
// destination directory and renames it into place, so readers never observe
// a partial artifact and a crash leaves at worst a stray temp file.
func writeAtomic(path string, artifact *report.Artifact) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.New().String())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating artifact %s: %w", path, err)
	}
	if err := artifact.Encode(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing artifact %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing artifact %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publishing artifact %s: %w", path, err)
	}
	return nil
}
