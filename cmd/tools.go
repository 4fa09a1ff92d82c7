package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/triagekit/triage-cli/internal/converter/catalog"
)

// newToolsCmd creates the `tools` command, which lists every analyzer the
// convert command accepts for --type.
func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the supported analyzers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTools(cmd.OutOrStdout())
		},
	}
}

func runTools(w io.Writer) error {
	for _, c := range catalog.Default().All() {
		if _, err := fmt.Fprintf(w, "%-12s %-28s %s\n", c.ToolID(), c.DisplayName(), c.URL()); err != nil {
			return err
		}
	}
	return nil
}
