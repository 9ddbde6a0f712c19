// Package app wires configuration, logging and telemetry around a
// poverty-rate run and drives its pipeline.
//
// # Pipeline
//
// A run executes four stages, each inside its own span:
//
//	1. load_thresholds: read and reshape the poverty threshold table
//	2. load_households: read the household table
//	3. classify: place every household above or below the line and aggregate per period
//	4. export: write the workbook, CSV files and chart
//
// An ambiguous reference row or an unreadable input stops the run before
// classification. Record-level problems never stop it; they are tallied on
// the result.
//
// # Usage
//
//	a, err := app.NewApplication(cfg, app.Options{})
//	if err != nil {
//	    return err
//	}
//	defer a.Shutdown(context.Background())
//	report, err := a.Run(ctx)
package app
