// Package poverty classifies survey households against an official poverty
// threshold table and aggregates a poverty rate per period.
//
// # Components
//
//   - reshape.go: builds a ThresholdTable from long rows (pivot) or a wide
//     table (melt), failing on keys that collide after bucketing
//   - normalize.go: buckets family size at 9 ("9 or more") and children at
//     8 ("8 or more")
//   - resolve.go: exact lookup with extrapolation for the open-ended buckets
//   - deflate.go: CPI deflation to reference-period dollars (base 100)
//   - classify.go: per-record classification and per-period aggregation
//
// # Exclusions
//
// A record whose key is not a non-negative integer pair, whose key has no
// threshold, whose price index is not positive, or whose income is missing is
// excluded from its period and tallied by reason in Result.Excluded. Periods
// left without records are omitted from Result.Rates.
//
// # Usage
//
//	table, _, err := poverty.BuildLong(rows, poverty.TableOptions{})
//	if err != nil {
//	    return err // ambiguous reference rows abort here
//	}
//	result, err := poverty.NewClassifier(table, logger).Classify(ctx, households)
package poverty
