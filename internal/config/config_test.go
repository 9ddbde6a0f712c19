package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "povrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "output.csv", cfg.Households.File)
				assert.Equal(t, "famsze", cfg.Households.FamilySizeColumn)
				assert.Equal(t, "nchild", cfg.Households.ChildrenColumn)
				assert.Equal(t, "wly", cfg.Households.IncomeColumn)
				assert.Equal(t, "cpi", cfg.Households.PriceIndexColumn)
				assert.Equal(t, "auto", cfg.Thresholds.Shape)
				assert.Equal(t, "poverty_rate_analysis.xlsx", cfg.Output.Workbook)
				assert.Equal(t, "threshold_keys.csv", cfg.Output.KeyCSV)
				assert.False(t, cfg.Telemetry.Enabled)
			},
		},
		{
			name: "file overrides defaults and keeps unset keys",
			file: `
households:
  file: psid.xlsx
  sheet: panel
thresholds:
  shape: wide
  primary_type: threshold
output:
  chart: ""
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "psid.xlsx", cfg.Households.File)
				assert.Equal(t, "panel", cfg.Households.Sheet)
				assert.Equal(t, "year", cfg.Households.PeriodColumn)
				assert.Equal(t, "wide", cfg.Thresholds.Shape)
				assert.Equal(t, "threshold", cfg.Thresholds.PrimaryType)
				assert.Equal(t, "", cfg.Output.Chart)
				assert.Equal(t, "poverty_rate.csv", cfg.Output.RateCSV)
			},
		},
		{
			name: "env overrides file",
			file: `
logging:
  level: debug
households:
  income_column: ly
`,
			env: map[string]string{
				"POVRATE_LOGGING_LEVEL":            "WARN",
				"POVRATE_HOUSEHOLDS_INCOME_COLUMN": "wly2",
				"POVRATE_TELEMETRY_ENABLED":        "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, "wly2", cfg.Households.IncomeColumn)
				assert.True(t, cfg.Telemetry.Enabled)
			},
		},
		{
			name:    "invalid shape",
			env:     map[string]string{"POVRATE_THRESHOLDS_SHAPE": "diagonal"},
			wantErr: "Shape",
		},
		{
			name:    "invalid yaml",
			file:    "logging: [",
			wantErr: "failed to load config from file",
		},
		{
			name:    "log file required for file output",
			file:    "logging:\n  output: file\n  file_path: \"\"\n",
			wantErr: "FilePath",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate_RequiredColumns(t *testing.T) {
	cfg := Default()
	cfg.Households.IncomeColumn = ""
	cfg.Thresholds.File = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IncomeColumn")
	assert.Contains(t, err.Error(), "Thresholds.File")
}

func TestValidate_TelemetryServiceName(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.ServiceName = ""

	assert.Error(t, cfg.Validate())

	cfg.Telemetry.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
