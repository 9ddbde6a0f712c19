package exporter

import (
	"context"
	"fmt"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
	"github.com/austinm2151/ECON-434-FinalProject/internal/poverty"
)

// Key listing statuses
const (
	StatusUnresolved   = "unresolved"
	StatusExtrapolated = "extrapolated"
)

// RateHeaders are the columns of the poverty rate table
var RateHeaders = []string{"period", "total_count", "below_count", "rate"}

// KeyHeaders are the columns of the threshold key diagnostic listing
var KeyHeaders = []string{"family_size", "children", "status", "households"}

// ClassificationHeaders are the columns of the per-household file
var ClassificationHeaders = []string{
	"row", "period", "family_size", "num_children", "nominal_income", "price_index",
	"key_family_size", "key_children", "nominal_threshold", "real_threshold", "real_income",
	"below_line", "extrapolated", "excluded_reason",
}

// RateRecords renders rate rows as CSV records
func RateRecords(rates []poverty.PovertyRateRow) [][]string {
	records := make([][]string, 0, len(rates))
	for _, r := range rates {
		records = append(records, []string{
			formatInt(r.Period),
			formatInt(r.TotalCount),
			formatInt(r.BelowCount),
			formatFloat(r.Rate),
		})
	}
	return records
}

// KeyRow is one line of the threshold key listing
type KeyRow struct {
	Key        poverty.Key
	Status     string
	Households int
}

// KeyRows lists unresolved keys first, then extrapolated ones, each sorted by key
func KeyRows(result *poverty.Result) []KeyRow {
	rows := make([]KeyRow, 0, len(result.Unresolved)+len(result.Extrapolated))
	for _, kc := range result.Unresolved {
		rows = append(rows, KeyRow{Key: kc.Key, Status: StatusUnresolved, Households: kc.Count})
	}
	for _, kc := range result.Extrapolated {
		rows = append(rows, KeyRow{Key: kc.Key, Status: StatusExtrapolated, Households: kc.Count})
	}
	return rows
}

// KeyRecords renders the key listing as CSV records
func KeyRecords(result *poverty.Result) [][]string {
	rows := KeyRows(result)
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatInt(r.Key.FamilySize),
			formatInt(r.Key.Children),
			r.Status,
			formatInt(r.Households),
		})
	}
	return records
}

// ClassificationRecord renders one classification. Values a failed step never
// produced are left blank.
func ClassificationRecord(c poverty.Classification) []string {
	r := c.Record
	rec := []string{
		formatInt(r.Row),
		formatInt(r.Period),
		formatFloat(r.FamilySize),
		formatFloat(r.NumChildren),
		formatFloat(r.NominalIncome),
		formatFloat(r.PriceIndex),
		"", "", "", "", "",
		"", "", "",
	}

	reason := c.Reason()
	hasKey := reason != apperrors.KindInvalidKey
	hasThreshold := hasKey && reason != apperrors.KindUnresolvedThreshold

	if hasKey {
		rec[6] = formatInt(c.Key.FamilySize)
		rec[7] = formatInt(c.Key.Children)
	}
	if hasThreshold {
		rec[8] = formatMoney(c.NominalThreshold)
		rec[12] = formatBool(c.Extrapolated)
	}
	if c.Err == nil {
		rec[9] = formatMoney(c.RealThreshold)
		rec[10] = formatMoney(c.RealIncome)
		rec[11] = formatBool(c.BelowLine)
	}
	rec[13] = string(reason)
	return rec
}

// WriteRates writes the rate table as a BOM-prefixed CSV file
func (w *CSVWriter) WriteRates(filePath string, rates []poverty.PovertyRateRow) (string, error) {
	path, err := w.WriteSimpleCSV(filePath, RateHeaders, RateRecords(rates))
	if err != nil {
		return "", fmt.Errorf("write rate csv: %w", err)
	}
	return path, nil
}

// WriteKeys writes the unresolved and extrapolated threshold keys as a
// BOM-prefixed CSV file. A run with neither still gets the header row.
func (w *CSVWriter) WriteKeys(filePath string, result *poverty.Result) (string, error) {
	path, err := w.WriteSimpleCSV(filePath, KeyHeaders, KeyRecords(result))
	if err != nil {
		return "", fmt.Errorf("write key csv: %w", err)
	}
	return path, nil
}

// WriteClassifications streams one row per household record
func (w *CSVWriter) WriteClassifications(ctx context.Context, filePath string, classifications []poverty.Classification) (string, error) {
	stream, err := w.CreateStreamWriter(filePath, ClassificationHeaders)
	if err != nil {
		return "", fmt.Errorf("write classifications: %w", err)
	}

	for i, c := range classifications {
		if err := ctx.Err(); err != nil {
			stream.Close()
			return "", fmt.Errorf("write classifications: %w", err)
		}
		if err := stream.WriteRecord(ClassificationRecord(c)); err != nil {
			stream.Close()
			return "", fmt.Errorf("write classification %d: %w", i, err)
		}
	}

	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("write classifications: %w", err)
	}
	return stream.Path, nil
}
