package cli

import (
	"github.com/spf13/cobra"
)

// NewThresholdsCommand creates the thresholds command.
func NewThresholdsCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Print the reshaped poverty threshold table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			if err := applyPathFlag(&cfg.Thresholds.File, file); err != nil {
				return err
			}

			a, err := newApplication(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.Shutdown(cmd.Context())

			table, stats, err := a.LoadThresholds(cmd.Context())
			if err != nil {
				return err
			}
			renderThresholds(cmd.OutOrStdout(), table, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "thresholds", "", "poverty threshold table (csv or xlsx)")
	return cmd
}
