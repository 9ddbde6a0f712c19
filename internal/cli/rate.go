package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

type rateFlags struct {
	households  string
	thresholds  string
	outDir      string
	primaryType string
}

// NewRateCommand creates the rate command.
func NewRateCommand() *cobra.Command {
	flags := &rateFlags{}

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Compute poverty rates by period",
		Long: `Classify every household against the poverty threshold for its family size
and number of children, then print and export the share below the line per
period. Reports are written to the reports directory (or --out-dir).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRate(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.households, "households", "", "household table (csv or xlsx)")
	cmd.Flags().StringVar(&flags.thresholds, "thresholds", "", "poverty threshold table (csv or xlsx)")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "directory for reports")
	cmd.Flags().StringVar(&flags.primaryType, "threshold-type", "", "threshold type used for classification")

	return cmd
}

func runRate(cmd *cobra.Command, flags *rateFlags) error {
	cfg := GetConfig(cmd.Context())
	if err := applyPathFlag(&cfg.Households.File, flags.households); err != nil {
		return err
	}
	if err := applyPathFlag(&cfg.Thresholds.File, flags.thresholds); err != nil {
		return err
	}
	if err := applyPathFlag(&cfg.Paths.ReportsDir, flags.outDir); err != nil {
		return err
	}
	if flags.primaryType != "" {
		cfg.Thresholds.PrimaryType = flags.primaryType
	}

	a, err := newApplication(cmd, cfg)
	if err != nil {
		return err
	}
	defer a.Shutdown(cmd.Context())

	report, err := a.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderRates(out, report.Result.Rates)
	renderExclusions(out, report.Result)
	renderKeys(out, report.Result)
	renderOutputs(out, report)
	return nil
}

// applyPathFlag overrides a configured path with a flag value resolved
// against the working directory
func applyPathFlag(dst *string, value string) error {
	if value == "" {
		return nil
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return err
	}
	*dst = abs
	return nil
}
