package poverty

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
)

// Classifier places households above or below the poverty line and
// aggregates a poverty rate per period
type Classifier struct {
	table  *ThresholdTable
	logger *slog.Logger
}

// NewClassifier creates a classifier over a built threshold table
func NewClassifier(table *ThresholdTable, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		table:  table,
		logger: logger.With(slog.String("component", "poverty_classifier")),
	}
}

// ClassifyRecord derives the classification of a single household.
// Errors are carried on the result; the record is then excluded.
func (c *Classifier) ClassifyRecord(r HouseholdRecord) Classification {
	out := Classification{Record: r}

	key, err := Normalize(r.FamilySize, r.NumChildren)
	if err != nil {
		out.Err = err
		return out
	}
	out.Key = key

	res, err := c.table.Resolve(key)
	if err != nil {
		out.Err = err
		return out
	}
	out.NominalThreshold = res.Threshold
	out.Extrapolated = res.Extrapolated

	realThreshold, err := Deflate(res.Threshold, r.PriceIndex)
	if err != nil {
		out.Err = err
		return out
	}

	if math.IsNaN(r.NominalIncome) {
		out.Err = apperrors.New(apperrors.KindInvalidIncome, "classify", "income is missing")
		return out
	}
	realIncome, err := Deflate(r.FlooredIncome(), r.PriceIndex)
	if err != nil {
		out.Err = err
		return out
	}

	out.RealThreshold = realThreshold
	out.RealIncome = realIncome
	out.BelowLine = realIncome < realThreshold
	return out
}

// Classify runs every record through ClassifyRecord and aggregates the rate
// per period in ascending order. Per-record failures are tallied and never
// abort the run; only context cancellation returns an error.
func (c *Classifier) Classify(ctx context.Context, records []HouseholdRecord) (*Result, error) {
	start := time.Now()
	c.logger.InfoContext(ctx, "starting poverty classification",
		slog.Int("records", len(records)),
		slog.String("threshold_type", c.table.Primary()),
		slog.Int("threshold_keys", c.table.Len()))

	result := &Result{
		Classifications: make([]Classification, 0, len(records)),
		Excluded:        make(map[apperrors.Kind]int),
	}
	byPeriod := make(map[int]*PovertyRateRow)
	unresolved := make(map[Key]int)
	extrapolated := make(map[Key]int)

	for i, r := range records {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("classification cancelled at record %d: %w", i, ctx.Err())
		default:
		}

		cl := c.ClassifyRecord(r)
		result.Classifications = append(result.Classifications, cl)

		if cl.Excluded() {
			kind := cl.Reason()
			result.Excluded[kind]++
			if kind == apperrors.KindUnresolvedThreshold {
				unresolved[cl.Key]++
			}
			c.logger.DebugContext(ctx, "household excluded",
				slog.Int("row", r.Row),
				slog.Int("period", r.Period),
				slog.String("reason", string(kind)),
				slog.String("error", cl.Err.Error()))
			continue
		}
		if cl.Extrapolated {
			extrapolated[cl.Key]++
		}

		row, ok := byPeriod[r.Period]
		if !ok {
			row = &PovertyRateRow{Period: r.Period}
			byPeriod[r.Period] = row
		}
		row.TotalCount++
		if cl.BelowLine {
			row.BelowCount++
		}
	}

	result.Rates = aggregateRates(byPeriod)
	result.Unresolved = sortedKeyCounts(unresolved)
	result.Extrapolated = sortedKeyCounts(extrapolated)

	if len(result.Unresolved) > 0 {
		combos := make([]string, 0, len(result.Unresolved))
		for _, kc := range result.Unresolved {
			combos = append(combos, kc.Key.String())
		}
		c.logger.WarnContext(ctx, "missing poverty thresholds for family size/children combinations",
			slog.Any("combinations", combos),
			slog.Int("households", result.Excluded[apperrors.KindUnresolvedThreshold]))
	}

	c.logger.InfoContext(ctx, "poverty classification complete",
		slog.Int("classified", result.Classified()),
		slog.Int("excluded", result.ExcludedTotal()),
		slog.Int("periods", len(result.Rates)),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

func aggregateRates(byPeriod map[int]*PovertyRateRow) []PovertyRateRow {
	rates := make([]PovertyRateRow, 0, len(byPeriod))
	for _, row := range byPeriod {
		if row.TotalCount == 0 {
			continue
		}
		row.Rate = float64(row.BelowCount) / float64(row.TotalCount)
		rates = append(rates, *row)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Period < rates[j].Period })
	return rates
}
