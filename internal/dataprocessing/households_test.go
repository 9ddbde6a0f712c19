package dataprocessing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
	"github.com/austinm2151/ECON-434-FinalProject/internal/shared/testutil"
)

func defaultColumns() HouseholdColumns {
	return HouseholdColumns{
		Period:     "year",
		FamilySize: "famsze",
		Children:   "nchild",
		Income:     "wly",
		PriceIndex: "cpi",
	}
}

func TestHouseholdLoader_Load(t *testing.T) {
	fx := testutil.NewDataFixtures(t)
	rows := append(testutil.SampleHouseholds(),
		[]string{"", "", "", "", ""},
		[]string{"n/a", "2", "0", "100", "100"},
		[]string{"2003.0", "two", "0", "", "1,250.5"},
	)
	path := fx.WriteCSV("output.csv", testutil.HouseholdHeader, rows)

	logger, _ := testutil.NewTestLogger(t)
	records, stats, err := NewHouseholdLoader(defaultColumns(), logger).Load(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, LoadStats{Rows: 10, Loaded: 8, BlankRows: 1, SkippedPeriod: 1}, stats)
	require.Len(t, records, 8)

	first := records[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, 1999, first.Period)
	assert.Equal(t, 1.0, first.FamilySize)
	assert.Equal(t, 0.0, first.NumChildren)
	assert.Equal(t, 90.0, first.NominalIncome)
	assert.Equal(t, 100.0, first.PriceIndex)

	last := records[7]
	assert.Equal(t, 11, last.Row)
	assert.Equal(t, 2003, last.Period)
	assert.True(t, math.IsNaN(last.FamilySize))
	assert.True(t, math.IsNaN(last.NominalIncome))
	assert.Equal(t, 1250.5, last.PriceIndex)
}

func TestHouseholdLoader_XLSX(t *testing.T) {
	fx := testutil.NewDataFixtures(t)
	path := fx.WriteXLSX("panel.xlsx", "psid", testutil.HouseholdHeader, testutil.SampleHouseholds())

	records, stats, err := NewHouseholdLoader(defaultColumns(), nil).Load(context.Background(), path, "psid")
	require.NoError(t, err)
	assert.Equal(t, len(testutil.SampleHouseholds()), stats.Loaded)
	assert.Equal(t, 12.0, records[6].FamilySize)
}

func TestHouseholdLoader_MissingColumns(t *testing.T) {
	fx := testutil.NewDataFixtures(t)
	path := fx.WriteCSV("output.csv", []string{"year", "famsze", "wly"}, [][]string{{"1999", "2", "10"}})

	_, _, err := NewHouseholdLoader(defaultColumns(), nil).Load(context.Background(), path, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "nchild, cpi")
	assert.Contains(t, err.Error(), "load households")
}

func TestHouseholdLoader_Cancelled(t *testing.T) {
	fx := testutil.NewDataFixtures(t)
	path := fx.WriteCSV("output.csv", testutil.HouseholdHeader, testutil.SampleHouseholds())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewHouseholdLoader(defaultColumns(), nil).Load(ctx, path, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1999", 1999, true},
		{"1999.0", 1999, true},
		{"1999.5", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"1e20", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parsePeriod(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
