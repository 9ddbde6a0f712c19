package config

// Default file and directory names of a run
const (
	// Directories
	DefaultDataDir    = "data"
	DefaultReportsDir = "reports"
	DefaultLogsDir    = "logs"

	// Inputs
	DefaultHouseholdFile = "output.csv"
	DefaultThresholdFile = "poverty_thresholds_cleaned.csv"

	// Household columns of the PSID extract
	DefaultPeriodColumn     = "year"
	DefaultFamilySizeColumn = "famsze"
	DefaultChildrenColumn   = "nchild"
	DefaultIncomeColumn     = "wly"
	DefaultPriceIndexColumn = "cpi"

	// Long threshold table columns
	DefaultThresholdFamilyColumn   = "FamilySize"
	DefaultThresholdChildrenColumn = "Kids"
	DefaultThresholdTypeColumn     = "ThresholdType"
	DefaultThresholdValueColumn    = "ThresholdValue"
	DefaultWideThresholdType       = "threshold"

	// Reports
	DefaultWorkbookFile       = "poverty_rate_analysis.xlsx"
	DefaultRateCSVFile        = "poverty_rate.csv"
	DefaultClassificationFile = "classifications.csv"
	DefaultKeyCSVFile         = "threshold_keys.csv"
	DefaultChartFile          = "poverty_rate.png"
	DefaultMetricsFile        = "povrate.prom"

	// Logging
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "console"
	DefaultLogFile   = "logs/povrate.log"

	DefaultServiceName = "povrate"
)

// ConfigFileLocations are searched in order when no config file is given
var ConfigFileLocations = []string{
	"povrate.yaml",
	"configs/povrate.yaml",
}
