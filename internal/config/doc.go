// Package config provides configuration management for the poverty-rate run.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command-line flags (applied by the cli package)
//	2. Environment variables (POVRATE_*)
//	3. YAML file (--config, povrate.yaml or configs/povrate.yaml)
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// Variables follow the struct layout under the POVRATE prefix:
//
//	POVRATE_LOGGING_LEVEL=debug
//	POVRATE_HOUSEHOLDS_FILE=psid_panel.csv
//	POVRATE_THRESHOLDS_SHAPE=wide
//	POVRATE_TELEMETRY_ENABLED=true
//
// # Path Management
//
// Relative input files are resolved against the data directory and relative
// report files against the reports directory, both under a base directory
// that defaults to the working directory:
//
//	paths, _ := cfg.ResolvePaths()
//	households := paths.DataFile(cfg.Households.File)
//	workbook := paths.ReportFile(cfg.Output.Workbook)
package config
