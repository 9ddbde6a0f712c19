package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override, e.g. POVRATE_LOGGING_LEVEL
const EnvPrefix = "POVRATE"

// Config represents the complete run configuration
type Config struct {
	Logging    LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Households HouseholdConfig `yaml:"households" envconfig:"HOUSEHOLDS"`
	Thresholds ThresholdConfig `yaml:"thresholds" envconfig:"THRESHOLDS"`
	Output     OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Telemetry  TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains the directories relative paths are resolved against
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// HouseholdConfig locates the household table and names its columns
type HouseholdConfig struct {
	File             string `yaml:"file" envconfig:"FILE" validate:"required"`
	Sheet            string `yaml:"sheet" envconfig:"SHEET"`
	PeriodColumn     string `yaml:"period_column" envconfig:"PERIOD_COLUMN" validate:"required"`
	FamilySizeColumn string `yaml:"family_size_column" envconfig:"FAMILY_SIZE_COLUMN" validate:"required"`
	ChildrenColumn   string `yaml:"children_column" envconfig:"CHILDREN_COLUMN" validate:"required"`
	IncomeColumn     string `yaml:"income_column" envconfig:"INCOME_COLUMN" validate:"required"`
	PriceIndexColumn string `yaml:"price_index_column" envconfig:"PRICE_INDEX_COLUMN" validate:"required"`
}

// ThresholdConfig locates the poverty threshold reference table
type ThresholdConfig struct {
	File  string `yaml:"file" envconfig:"FILE" validate:"required"`
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
	// Shape is long, wide or auto
	Shape          string `yaml:"shape" envconfig:"SHAPE" validate:"oneof=auto long wide"`
	PrimaryType    string `yaml:"primary_type" envconfig:"PRIMARY_TYPE"`
	FamilyColumn   string `yaml:"family_column" envconfig:"FAMILY_COLUMN"`
	ChildrenColumn string `yaml:"children_column" envconfig:"CHILDREN_COLUMN"`
	TypeColumn     string `yaml:"type_column" envconfig:"TYPE_COLUMN"`
	ValueColumn    string `yaml:"value_column" envconfig:"VALUE_COLUMN"`
	// WideType tags values of a wide table that has no type column
	WideType string `yaml:"wide_type" envconfig:"WIDE_TYPE"`
}

// OutputConfig names the report files. An empty name skips that output.
type OutputConfig struct {
	Workbook        string `yaml:"workbook" envconfig:"WORKBOOK"`
	RateCSV         string `yaml:"rate_csv" envconfig:"RATE_CSV"`
	Classifications string `yaml:"classifications" envconfig:"CLASSIFICATIONS"`
	KeyCSV          string `yaml:"key_csv" envconfig:"KEY_CSV"`
	Chart           string `yaml:"chart" envconfig:"CHART"`
}

// TelemetryConfig controls run tracing and the metrics textfile
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" envconfig:"ENABLED"`
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required_if=Enabled true"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, then the YAML file (explicit
// path or a well-known location), then POVRATE_* environment variables.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg; keys absent from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the struct tags and normalises a few values
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Thresholds.Shape = strings.ToLower(c.Thresholds.Shape)

	v := validator.New()
	if err := v.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msg := fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag())
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s fails %q (%s)", fe.Namespace(), fe.Tag(), fe.Param())
			}
			msgs = append(msgs, msg)
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// getConfigFilePath returns the first config file found in the usual locations
func getConfigFilePath() string {
	for _, location := range ConfigFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns the configuration of the PSID poverty-rate run
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
		Households: HouseholdConfig{
			File:             DefaultHouseholdFile,
			PeriodColumn:     DefaultPeriodColumn,
			FamilySizeColumn: DefaultFamilySizeColumn,
			ChildrenColumn:   DefaultChildrenColumn,
			IncomeColumn:     DefaultIncomeColumn,
			PriceIndexColumn: DefaultPriceIndexColumn,
		},
		Thresholds: ThresholdConfig{
			File:           DefaultThresholdFile,
			Shape:          "auto",
			FamilyColumn:   DefaultThresholdFamilyColumn,
			ChildrenColumn: DefaultThresholdChildrenColumn,
			TypeColumn:     DefaultThresholdTypeColumn,
			ValueColumn:    DefaultThresholdValueColumn,
			WideType:       DefaultWideThresholdType,
		},
		Output: OutputConfig{
			Workbook:        DefaultWorkbookFile,
			RateCSV:         DefaultRateCSVFile,
			Classifications: DefaultClassificationFile,
			KeyCSV:          DefaultKeyCSVFile,
			Chart:           DefaultChartFile,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: DefaultServiceName,
			MetricsFile: DefaultMetricsFile,
		},
	}
}
