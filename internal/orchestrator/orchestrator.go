// Package orchestrator drives a single conversion run: validate the request
// before touching the filesystem, prepare the output directory, parse the
// input through the registered converter, and serialize the resulting
// artifacts.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/triagekit/triage-cli/api/report"
	"github.com/triagekit/triage-cli/internal/converter"
	"github.com/triagekit/triage-cli/internal/reporting"
)

// Status reports how a successful conversion ended.
type Status string

const (
	// StatusClean means every input line or node converted without anomalies.
	StatusClean Status = "clean"
	// StatusWarnings means the conversion succeeded but skipped or flagged
	// some input; the warnings list carries the details.
	StatusWarnings Status = "warnings"
)

// defaultAllowedMetadata is the run-metadata allow-list of the base system.
var defaultAllowedMetadata = []string{"analyzer_command", "analyzer_version"}

// DefaultAllowedMetadata returns the metadata keys accepted out of the box.
func DefaultAllowedMetadata() []string {
	return append([]string(nil), defaultAllowedMetadata...)
}

// Request describes one conversion.
type Request struct {
	ToolID       string   // Registry key of the converter to run.
	InputPath    string   // Analyzer output: a file, or a directory of files.
	OutputDir    string   // Report directory receiving the artifacts.
	AnalysisRoot string   // Root for resolving relative source paths; may be empty.
	Metadata     []string // Raw key=value pairs from the command line.
	Clean        bool     // Remove OutputDir before writing instead of accumulating.
}

// Summary is the outcome of a successful conversion.
type Summary struct {
	Status       Status
	Tool         string
	InputFiles   []string // Parsed input files, in processing order.
	Diagnostics  int      // Entries written across all artifacts.
	FilesWritten []string // Artifact paths, sorted.
	Warnings     []string // Tolerated anomalies, attributed to their input file.
}

// Orchestrator wires the converter registry to the artifact writer. It is
// injected with its collaborators and owns the metadata allow-list; there
// are no package-level registries or defaults to mutate.
type Orchestrator struct {
	registry    *converter.Registry
	writer      *reporting.Writer
	log         *zap.Logger
	allowedMeta []string
	parallelism int
}

// Option adjusts an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithAllowedMetadata replaces the metadata key allow-list, for deployments
// whose report store accepts extra run attributes.
func WithAllowedMetadata(keys ...string) Option {
	return func(o *Orchestrator) {
		o.allowedMeta = append([]string(nil), keys...)
	}
}

// WithParallelism bounds how many input files parse concurrently when the
// input is a directory. Values below one fall back to the default.
func WithParallelism(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.parallelism = n
		}
	}
}

// New creates an Orchestrator. All dependencies are required.
func New(registry *converter.Registry, writer *reporting.Writer, log *zap.Logger, opts ...Option) (*Orchestrator, error) {
	if registry == nil || writer == nil || log == nil {
		return nil, fmt.Errorf("cannot initialize orchestrator with nil dependencies")
	}
	o := &Orchestrator{
		registry:    registry,
		writer:      writer,
		log:         log,
		allowedMeta: DefaultAllowedMetadata(),
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Convert runs one conversion. Validation failures (unknown tool, bad
// metadata, unusable input path) abort before the output directory is
// created or cleaned, so a doomed invocation leaves the filesystem exactly
// as it found it. Warnings never turn success into failure; they surface in
// the summary and its Status.
func (o *Orchestrator) Convert(ctx context.Context, req Request) (*Summary, error) {
	conv, ok := o.registry.Get(req.ToolID)
	if !ok {
		return nil, &UnsupportedToolError{Tool: req.ToolID, Supported: o.registry.ToolIDs()}
	}

	metadata, err := parseMetadata(req.Metadata, o.allowedMeta)
	if err != nil {
		return nil, err
	}

	inputs, err := collectInputs(req.InputPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := o.prepareOutputDir(req.OutputDir, req.Clean); err != nil {
		return nil, err
	}

	o.log.Info("conversion started",
		zap.String("tool", req.ToolID),
		zap.String("input", req.InputPath),
		zap.Int("input_files", len(inputs)),
		zap.String("output", req.OutputDir),
	)

	results, err := o.parseAll(ctx, conv, inputs, req.AnalysisRoot)
	if err != nil {
		return nil, err
	}

	var diags []report.Diagnostic
	var warnings []string
	for i, res := range results {
		diags = append(diags, res.Diagnostics...)
		for _, w := range res.Warnings {
			warnings = append(warnings, attribute(inputs, i, w))
		}
	}

	writeRes, err := o.writer.Write(req.OutputDir, req.ToolID, diags, metadata)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Status:       StatusClean,
		Tool:         req.ToolID,
		InputFiles:   inputs,
		Diagnostics:  writeRes.Diagnostics,
		FilesWritten: writeRes.FilesWritten,
		Warnings:     warnings,
	}
	if len(warnings) > 0 {
		summary.Status = StatusWarnings
		for _, w := range warnings {
			o.log.Warn("conversion anomaly", zap.String("tool", req.ToolID), zap.String("detail", w))
		}
	}

	o.log.Info("conversion finished",
		zap.String("tool", req.ToolID),
		zap.String("status", string(summary.Status)),
		zap.Int("diagnostics", summary.Diagnostics),
		zap.Int("artifacts", len(summary.FilesWritten)),
		zap.Int("warnings", len(summary.Warnings)),
	)
	return summary, nil
}

// parseAll fans the input files out over a bounded errgroup. Results land in
// a position-indexed slice so the merge order matches the sorted input
// order, whatever the goroutine scheduling did.
func (o *Orchestrator) parseAll(ctx context.Context, conv converter.Converter, inputs []string, root string) ([]*converter.Result, error) {
	results := make([]*converter.Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i, path := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening input: %w", err)
			}
			defer f.Close()

			res, err := conv.Parse(f, root)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// prepareOutputDir optionally removes a pre-existing report directory and
// then makes sure it exists. Without clean, existing artifacts stay and the
// new run accumulates next to them.
func (o *Orchestrator) prepareOutputDir(dir string, clean bool) error {
	if clean {
		if _, err := os.Stat(dir); err == nil {
			o.log.Warn("removing existing report directory", zap.String("dir", dir))
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("cleaning report directory: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("inspecting report directory: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	return nil
}

// collectInputs expands the input path: a regular file stands alone, a
// directory contributes its regular files in sorted name order (dotfiles
// skipped). An unreadable path or a directory without inputs is a usage
// error, caught before any filesystem mutation.
func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading input path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	var inputs []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		inputs = append(inputs, filepath.Join(path, e.Name()))
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("input directory %s contains no files", path)
	}
	sort.Strings(inputs)
	return inputs, nil
}

// attribute prefixes a warning with its input file when the run spans more
// than one, so directory conversions stay debuggable.
func attribute(inputs []string, idx int, w converter.Warning) string {
	if len(inputs) == 1 {
		return w.String()
	}
	return fmt.Sprintf("%s: %s", inputs[idx], w.String())
}
