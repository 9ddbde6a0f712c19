package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/austinm2151/ECON-434-FinalProject/internal/app"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", app.AppName, app.VERSION)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Built %s with %s\n", app.BuildTime, runtime.Version())
		},
	}
}
