// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/triagekit/triage-cli/internal/config"
	"github.com/triagekit/triage-cli/internal/observability"
)

// app carries the state PersistentPreRunE establishes for every subcommand:
// the resolved configuration and the initialized logger.
type app struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	log *zap.Logger
}

// exitError smuggles a specific process exit code out through cobra's error
// return. Execute unwraps it; nothing is printed for it.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// NewRootCommand builds the triage-cli command tree. Each call returns a
// fresh, isolated instance; nothing is registered globally.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "triage-cli",
		Short: "Convert static-analysis tool output into triage report artifacts.",
		Long: `triage-cli parses the native output of supported code analyzers and
serializes the findings as per-source-file JSON report artifacts that
downstream triage tooling consumes. Run 'triage-cli tools' for the list of
supported analyzers.`,
		// Version is dynamically set at build time. See cmd/version.go.
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Runs before any command: resolve config, then logging.
			return a.initialize()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "raise the log level to debug")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newConvertCmd(a))
	rootCmd.AddCommand(newToolsCmd())

	return rootCmd
}

// initialize layers the configuration (defaults, optional file, TRIAGE_
// environment, flags) and brings up the global logger from the result.
func (a *app) initialize() error {
	v := viper.New()
	config.SetDefaults(v)

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	config.BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and environment carry the run.
	}

	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logger.Level = "debug"
	}
	a.cfg = cfg

	observability.InitializeLogger(cfg.Logger)
	a.log = observability.GetLogger()
	return nil
}

// Execute runs the command tree against args and maps the outcome onto the
// process exit code: 0 for a clean conversion, 1 for any failure, 2 for a
// conversion that succeeded with warnings.
func Execute(ctx context.Context, args []string) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	observability.Sync()
	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}
