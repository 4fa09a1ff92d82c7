package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/triagekit/triage-cli/internal/converter/catalog"
	"github.com/triagekit/triage-cli/internal/orchestrator"
	"github.com/triagekit/triage-cli/internal/reporting"
)

// convertOptions collects the convert command's flag values.
type convertOptions struct {
	toolID    string
	outputDir string
	root      string
	meta      []string
	clean     bool
}

// newConvertCmd creates and configures the `convert` command.
func newConvertCmd(a *app) *cobra.Command {
	opts := &convertOptions{}

	convertCmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert analyzer output into report artifacts",
		Long: `Convert parses the native output of one analyzer (a file, or a directory
of files) and writes one JSON report artifact per affected source file into
the output directory. Without --clean, artifacts accumulate next to whatever
the directory already holds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// --root falls back to the configured analysis root.
			if !cmd.Flags().Changed("root") {
				opts.root = a.cfg.Convert.AnalysisRoot
			}
			return a.runConvert(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}

	convertCmd.Flags().StringVarP(&opts.toolID, "type", "t", "", "analyzer that produced the input; see 'triage-cli tools'")
	convertCmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "report directory receiving the artifacts")
	convertCmd.Flags().StringVar(&opts.root, "root", "", "directory relative source paths resolve against")
	convertCmd.Flags().StringArrayVarP(&opts.meta, "meta", "m", nil, "run metadata key=value, repeatable (allowed: analyzer_command, analyzer_version)")
	convertCmd.Flags().BoolVarP(&opts.clean, "clean", "c", false, "remove the output directory before writing instead of accumulating")
	_ = convertCmd.MarkFlagRequired("type")
	_ = convertCmd.MarkFlagRequired("output")

	return convertCmd
}

// runConvert is the testable core behind the convert command's RunE.
func (a *app) runConvert(ctx context.Context, opts *convertOptions, input string, out io.Writer) error {
	// One id correlates every log line of this conversion.
	conversionID := uuid.New().String()
	log := a.log.With(zap.String("conversion_id", conversionID))

	input, err := homedir.Expand(input)
	if err != nil {
		return fmt.Errorf("expanding input path: %w", err)
	}
	outputDir, err := homedir.Expand(opts.outputDir)
	if err != nil {
		return fmt.Errorf("expanding output path: %w", err)
	}
	analysisRoot, err := homedir.Expand(opts.root)
	if err != nil {
		return fmt.Errorf("expanding analysis root: %w", err)
	}

	var orchOpts []orchestrator.Option
	if a.cfg.Convert.Parallelism > 0 {
		orchOpts = append(orchOpts, orchestrator.WithParallelism(a.cfg.Convert.Parallelism))
	}
	orch, err := orchestrator.New(catalog.Default(), reporting.NewWriter(log), log, orchOpts...)
	if err != nil {
		return err
	}

	summary, err := orch.Convert(ctx, orchestrator.Request{
		ToolID:       opts.toolID,
		InputPath:    input,
		OutputDir:    outputDir,
		AnalysisRoot: analysisRoot,
		Metadata:     opts.meta,
		Clean:        opts.clean,
	})
	if err != nil {
		return err
	}

	printSummary(out, outputDir, summary)
	if summary.Status == orchestrator.StatusWarnings {
		return &exitError{code: 2}
	}
	return nil
}

// printSummary renders the one-line result: green for a clean conversion,
// yellow when warnings were tolerated, with the warning details following.
func printSummary(w io.Writer, outputDir string, s *orchestrator.Summary) {
	line := fmt.Sprintf("converted %s: %d diagnostic(s) from %d input file(s) -> %d artifact(s) in %s",
		s.Tool, s.Diagnostics, len(s.InputFiles), len(s.FilesWritten), outputDir)

	if s.Status == orchestrator.StatusClean {
		color.New(color.FgGreen).Fprintln(w, line)
		return
	}

	color.New(color.FgYellow).Fprintf(w, "%s (%d warning(s))\n", line, len(s.Warnings))
	for _, warning := range s.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}
