// Package exporter writes the results of a poverty-rate run.
//
// CSVWriter writes BOM-prefixed CSV files into the reports directory: the
// per-period rate table and, through a StreamWriter, one row per household
// classification. WorkbookWriter saves the poverty_rate and threshold_keys
// sheets of the analysis workbook, and WriteRateChart draws the rate by period.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths, logger)
//	if _, err := writer.WriteRates("poverty_rate.csv", result.Rates); err != nil {
//	    return err
//	}
//	err := exporter.NewWorkbookWriter(logger).Write(paths.ReportFile("poverty_rate_analysis.xlsx"), result)
package exporter
