package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/austinm2151/ECON-434-FinalProject/internal/convert"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in.dta> <out.csv>",
		Short: "Convert a Stata dta file to CSV",
		Long: `Convert a Stata dta extract to a CSV file with a header row, ready to be
used as the household table. Missing values become blank cells.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := convert.StataToCSV(cmd.Context(), args[0], args[1], commandLogger(cmd))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", rows, args[1])
			return nil
		},
	}
}
