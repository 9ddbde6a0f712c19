package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
	"github.com/austinm2151/ECON-434-FinalProject/internal/shared/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeInputs(t *testing.T) *testutil.DataFixtures {
	t.Helper()
	fx := testutil.NewDataFixtures(t)
	fx.WriteCSV("data/output.csv", testutil.HouseholdHeader, testutil.SampleHouseholds())
	fx.WriteCSV("data/poverty_thresholds_cleaned.csv", testutil.LongThresholdHeader, testutil.SampleThresholds())
	return fx
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "povrate v1.0.0")
}

func TestRateCommand(t *testing.T) {
	fx := writeInputs(t)
	outDir := filepath.Join(fx.Dir, "out")

	out, _, err := execute(t, "rate", "--base-dir", fx.Dir, "--out-dir", outDir)
	require.NoError(t, err)

	assert.Contains(t, out, "Poverty rate by period")
	assert.Contains(t, out, "66.67%")
	assert.Contains(t, out, "unresolved_threshold")
	assert.Contains(t, out, "invalid_price_index")
	assert.Contains(t, out, "extrapolated")
	assert.FileExists(t, filepath.Join(outDir, "poverty_rate_analysis.xlsx"))
	assert.FileExists(t, filepath.Join(outDir, "poverty_rate.csv"))
	assert.FileExists(t, filepath.Join(outDir, "threshold_keys.csv"))
}

func TestRateCommand_LogsStayOffStdout(t *testing.T) {
	fx := writeInputs(t)
	t.Setenv("POVRATE_LOGGING_OUTPUT", "both")
	t.Setenv("POVRATE_LOGGING_FORMAT", "json")

	out, errOut, err := execute(t, "rate", "--base-dir", fx.Dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Poverty rate by period")
	assert.NotContains(t, out, `"level"`)
	assert.Contains(t, errOut, "Poverty rate run complete")

	logged, err := os.ReadFile(fx.Path("logs/povrate.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "Poverty rate run complete")
}

func TestRateCommand_InputFlags(t *testing.T) {
	fx := testutil.NewDataFixtures(t)
	households := fx.WriteCSV("in/households.csv", testutil.HouseholdHeader, testutil.SampleHouseholds())
	thresholds := fx.WriteCSV("in/thresholds.csv", testutil.LongThresholdHeader, testutil.SampleThresholds())

	out, _, err := execute(t, "rate", "--base-dir", fx.Dir,
		"--households", households, "--thresholds", thresholds, "--threshold-type", "weighted")
	require.NoError(t, err)

	// weighted only covers sizes 1 and 2, so the rest go unresolved
	assert.Contains(t, out, "1999")
	assert.Contains(t, out, "unresolved_threshold")
	assert.FileExists(t, filepath.Join(fx.Dir, "reports", "classifications.csv"))
}

func TestRateCommand_MissingInput(t *testing.T) {
	fx := testutil.NewDataFixtures(t)

	_, _, err := execute(t, "rate", "--base-dir", fx.Dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestThresholdsCommand(t *testing.T) {
	fx := writeInputs(t)

	out, _, err := execute(t, "thresholds", "--base-dir", fx.Dir)
	require.NoError(t, err)

	// go-pretty upper-cases headers
	assert.Contains(t, out, "THRESHOLD *")
	assert.Contains(t, out, "WEIGHTED")
	assert.Contains(t, out, "9+")
	assert.Contains(t, out, "8+")
	assert.Contains(t, out, "(9 keys from 11 rows, 0 dropped, 0 capped)")
}

func TestConvertCommand_Args(t *testing.T) {
	_, _, err := execute(t, "convert", "only-one.dta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestConfigFlag_BadFile(t *testing.T) {
	_, _, err := execute(t, "rate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}
