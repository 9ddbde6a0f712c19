// Package cli provides the povrate command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/austinm2151/ECON-434-FinalProject/internal/app"
	"github.com/austinm2151/ECON-434-FinalProject/internal/config"
)

// configKey is used to store config in context.
type configKey struct{}

type rootFlags struct {
	configFile string
	baseDir    string
	logLevel   string
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   app.AppName,
		Short: "Household poverty rates from survey microdata",
		Long: `povrate classifies survey households against official poverty thresholds
keyed by family size and number of children, then reports the share of
households below the line for every period.

Configuration comes from povrate.yaml (or --config), then POVRATE_*
environment variables, then command flags.`,
		Version: app.VERSION,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig(cmd) {
				return nil
			}

			cfg, err := config.Load(flags.configFile)
			if err != nil {
				return err
			}
			if flags.baseDir != "" {
				cfg.Paths.BaseDir = flags.baseDir
			}
			if flags.logLevel != "" {
				cfg.Logging.Level = strings.ToLower(flags.logLevel)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default: ./povrate.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.baseDir, "base-dir", "", "base directory for data, reports and logs (default: working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewRateCommand())
	rootCmd.AddCommand(NewThresholdsCommand())
	rootCmd.AddCommand(NewConvertCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.Default()
}

// skipConfig reports whether cmd runs without loading configuration
func skipConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", "__complete", "version", "convert":
		return true
	}
	return false
}

// newApplication builds the application for a command. Console logs go to
// the command's stderr so tables on stdout stay clean.
func newApplication(cmd *cobra.Command, cfg *config.Config) (*app.Application, error) {
	return app.NewApplication(cfg, app.Options{Console: cmd.ErrOrStderr()})
}

// commandLogger returns a console logger on the command's stderr for
// commands that run without configuration
func commandLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelInfo}))
}
