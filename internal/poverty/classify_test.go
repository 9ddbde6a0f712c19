package poverty

import (
	"context"
	stderrors "errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
	"github.com/austinm2151/ECON-434-FinalProject/internal/shared/testutil"
)

func newTestClassifier(t *testing.T, entries map[Key]float64) *Classifier {
	t.Helper()
	return NewClassifier(buildTable(t, entries), slog.New(testutil.NewBufferedSlogHandler(t)))
}

func TestClassify_AboveLine(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{2, 0}: 90})

	result, err := c.Classify(context.Background(), []HouseholdRecord{
		{Row: 1, Period: 1, NominalIncome: 100, FamilySize: 2, NumChildren: 0, PriceIndex: 100},
	})
	require.NoError(t, err)

	require.Len(t, result.Classifications, 1)
	assert.False(t, result.Classifications[0].BelowLine)
	assert.Equal(t, []PovertyRateRow{{Period: 1, TotalCount: 1, BelowCount: 0, Rate: 0}}, result.Rates)
}

func TestClassify_BelowLine(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{2, 0}: 90})

	result, err := c.Classify(context.Background(), []HouseholdRecord{
		{Row: 1, Period: 1, NominalIncome: 80, FamilySize: 2, NumChildren: 0, PriceIndex: 100},
	})
	require.NoError(t, err)

	assert.True(t, result.Classifications[0].BelowLine)
	assert.Equal(t, []PovertyRateRow{{Period: 1, TotalCount: 1, BelowCount: 1, Rate: 1}}, result.Rates)
}

func TestClassify_InvalidPriceIndexExcludesRecord(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{2, 0}: 90})

	result, err := c.Classify(context.Background(), []HouseholdRecord{
		{Row: 1, Period: 1, NominalIncome: 100, FamilySize: 2, NumChildren: 0, PriceIndex: 0},
		{Row: 2, Period: 1, NominalIncome: 80, FamilySize: 2, NumChildren: 0, PriceIndex: 100},
	})
	require.NoError(t, err)

	first := result.Classifications[0]
	require.Error(t, first.Err)
	assert.True(t, stderrors.Is(first.Err, apperrors.ErrInvalidPriceIndex))
	assert.True(t, first.Excluded())
	assert.Equal(t, apperrors.KindInvalidPriceIndex, first.Reason())

	assert.Equal(t, 1, result.Excluded[apperrors.KindInvalidPriceIndex])
	assert.Equal(t, []PovertyRateRow{{Period: 1, TotalCount: 1, BelowCount: 1, Rate: 1}}, result.Rates)
}

func TestClassify_PeriodWithoutSurvivorsIsOmitted(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{2, 0}: 90})

	result, err := c.Classify(context.Background(), []HouseholdRecord{
		{Row: 1, Period: 2001, NominalIncome: 100, FamilySize: 2, PriceIndex: 0},
		{Row: 2, Period: 2003, NominalIncome: 100, FamilySize: 2, PriceIndex: 100},
	})
	require.NoError(t, err)

	require.Len(t, result.Rates, 1)
	assert.Equal(t, 2003, result.Rates[0].Period)
	for _, r := range result.Rates {
		assert.True(t, r.IsValid())
		assert.False(t, math.IsNaN(r.Rate))
	}
}

func TestClassify_ExclusionTally(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{2, 0}: 90, {9, 1}: 300})

	records := []HouseholdRecord{
		{Row: 1, Period: 1, NominalIncome: 50, FamilySize: -1, PriceIndex: 100},
		{Row: 2, Period: 1, NominalIncome: 50, FamilySize: 3, NumChildren: 1, PriceIndex: 100},
		{Row: 3, Period: 1, NominalIncome: 50, FamilySize: 3, NumChildren: 1, PriceIndex: 100},
		{Row: 4, Period: 1, NominalIncome: math.NaN(), FamilySize: 2, PriceIndex: 100},
		{Row: 5, Period: 1, NominalIncome: 50, FamilySize: 2, PriceIndex: -1},
		{Row: 6, Period: 1, NominalIncome: 50, FamilySize: 12, NumChildren: 4, PriceIndex: 100},
		{Row: 7, Period: 1, NominalIncome: 500, FamilySize: 2, PriceIndex: 100},
	}
	result, err := c.Classify(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, map[apperrors.Kind]int{
		apperrors.KindInvalidKey:          1,
		apperrors.KindUnresolvedThreshold: 2,
		apperrors.KindInvalidIncome:       1,
		apperrors.KindInvalidPriceIndex:   1,
	}, result.Excluded)
	assert.Equal(t, 5, result.ExcludedTotal())
	assert.Equal(t, 2, result.Classified())
	assert.Equal(t, []KeyCount{{Key: Key{3, 1}, Count: 2}}, result.Unresolved)
	assert.Equal(t, []KeyCount{{Key: Key{9, 4}, Count: 1}}, result.Extrapolated)
	assert.Equal(t, []PovertyRateRow{{Period: 1, TotalCount: 2, BelowCount: 1, Rate: 0.5}}, result.Rates)
	assert.Len(t, result.Classifications, len(records))
}

func TestClassify_UnresolvedLogsWarning(t *testing.T) {
	handler := testutil.NewBufferedSlogHandler(t)
	c := NewClassifier(buildTable(t, map[Key]float64{{2, 0}: 90}), slog.New(handler))

	_, err := c.Classify(context.Background(), []HouseholdRecord{
		{Row: 1, Period: 1, NominalIncome: 50, FamilySize: 4, NumChildren: 2, PriceIndex: 100},
	})
	require.NoError(t, err)

	warnings := handler.GetRecordsByLevel(slog.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "missing poverty thresholds")
}

func TestClassify_DeflatesIncomeAndThreshold(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{3, 1}: 200})

	cl := c.ClassifyRecord(HouseholdRecord{Period: 1, NominalIncome: 300, FamilySize: 3, NumChildren: 1, PriceIndex: 150})
	require.NoError(t, cl.Err)
	assert.InDelta(t, 200, cl.RealIncome, 1e-9)
	assert.InDelta(t, 133.333333, cl.RealThreshold, 1e-6)
	assert.Equal(t, 200.0, cl.NominalThreshold)
	assert.False(t, cl.BelowLine)
}

func TestClassify_FloorsNonPositiveIncome(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{1, 0}: 100})

	cl := c.ClassifyRecord(HouseholdRecord{Period: 1, NominalIncome: -500, FamilySize: 1, PriceIndex: 100})
	require.NoError(t, cl.Err)
	assert.Equal(t, IncomeFloor, cl.RealIncome)
	assert.True(t, cl.BelowLine)
}

func TestClassify_SortedPeriodsAndDeterministic(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{2, 0}: 90})
	records := []HouseholdRecord{
		{Period: 2005, NominalIncome: 80, FamilySize: 2, PriceIndex: 100},
		{Period: 1999, NominalIncome: 100, FamilySize: 2, PriceIndex: 100},
		{Period: 2001, NominalIncome: 80, FamilySize: 2, PriceIndex: 100},
		{Period: 1999, NominalIncome: 80, FamilySize: 2, PriceIndex: 100},
	}

	first, err := c.Classify(context.Background(), records)
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, first.Rates, second.Rates)
	periods := []int{}
	for _, r := range first.Rates {
		periods = append(periods, r.Period)
		assert.GreaterOrEqual(t, r.Rate, 0.0)
		assert.LessOrEqual(t, r.Rate, 1.0)
	}
	assert.Equal(t, []int{1999, 2001, 2005}, periods)
	assert.Equal(t, 0.5, first.Rates[0].Rate)
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{9, 0}: 400})
	records := []HouseholdRecord{{Period: 1, NominalIncome: 0, FamilySize: 14, PriceIndex: 100}}
	snapshot := append([]HouseholdRecord(nil), records...)

	_, err := c.Classify(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, snapshot, records)
}

func TestClassify_Cancelled(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{2, 0}: 90})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, []HouseholdRecord{{Period: 1, NominalIncome: 1, FamilySize: 2, PriceIndex: 100}})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestClassify_EmptyInput(t *testing.T) {
	c := newTestClassifier(t, map[Key]float64{{2, 0}: 90})

	result, err := c.Classify(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Rates)
	assert.Zero(t, result.ExcludedTotal())
}
