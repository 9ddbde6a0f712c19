package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
	"github.com/austinm2151/ECON-434-FinalProject/internal/shared/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileValidator_ValidateTable(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T, dir string) string
		allowStata    bool
		wantErr       bool
		errorContains string
	}{
		{
			name: "csv table",
			setupFunc: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "output.csv", "year,famsze\n1999,2\n")
			},
		},
		{
			name: "xlsx table",
			setupFunc: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "thresholds.XLSX", "PK")
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T, dir string) string {
				return filepath.Join(dir, "nope.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "empty file",
			setupFunc: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "empty.csv", "")
			},
			wantErr:       true,
			errorContains: "is empty",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T, dir string) string {
				sub := filepath.Join(dir, "tables.csv")
				require.NoError(t, os.Mkdir(sub, 0755))
				return sub
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "~$thresholds.xlsx", "x")
			},
			wantErr:       true,
			errorContains: "temporary Excel file",
		},
		{
			name: "stata refused for tables",
			setupFunc: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "psid.dta", "x")
			},
			wantErr:       true,
			errorContains: "unsupported extension",
		},
		{
			name: "stata allowed for households",
			setupFunc: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "psid.dta", "x")
			},
			allowStata: true,
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "data.json", "{}")
			},
			allowStata:    true,
			wantErr:       true,
			errorContains: `".json"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewFileValidator(logger)
			path := tt.setupFunc(t, t.TempDir())

			err := v.ValidateTable(path, tt.allowStata)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)
	dir := filepath.Join(t.TempDir(), "reports", "2024")

	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)
	assert.NoFileExists(t, filepath.Join(dir, ".write_test"))

	file := writeFile(t, t.TempDir(), "not-a-dir", "x")
	assert.Error(t, v.ValidateOutputDirectory(file))
}

func TestIsStata(t *testing.T) {
	assert.True(t, IsStata("psid.dta"))
	assert.True(t, IsStata("/data/PSID.DTA"))
	assert.False(t, IsStata("output.csv"))
	assert.False(t, IsStata("dta"))
}
