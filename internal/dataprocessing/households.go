package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
	"github.com/austinm2151/ECON-434-FinalProject/internal/poverty"
)

// HouseholdColumns names the household table columns
type HouseholdColumns struct {
	Period     string
	FamilySize string
	Children   string
	Income     string
	PriceIndex string
}

// LoadStats summarizes a household load
type LoadStats struct {
	Rows          int `json:"rows"`
	Loaded        int `json:"loaded"`
	BlankRows     int `json:"blank_rows"`
	SkippedPeriod int `json:"skipped_period"`
}

// HouseholdLoader reads household records from a CSV file or workbook sheet
type HouseholdLoader struct {
	columns HouseholdColumns
	logger  *slog.Logger
}

// NewHouseholdLoader creates a loader for the given column layout
func NewHouseholdLoader(columns HouseholdColumns, logger *slog.Logger) *HouseholdLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &HouseholdLoader{
		columns: columns,
		logger:  logger.With(slog.String("component", "household_loader")),
	}
}

// Load reads every household row of path. Rows whose period does not parse
// are skipped and counted; any other unparsable numeric cell loads as NaN so
// the classifier reports it against the record.
func (l *HouseholdLoader) Load(ctx context.Context, path, sheet string) ([]poverty.HouseholdRecord, LoadStats, error) {
	var stats LoadStats

	table, err := ReadTable(path, sheet)
	if err != nil {
		return nil, stats, fmt.Errorf("load households: %w", err)
	}

	idx, err := l.resolveColumns(table)
	if err != nil {
		return nil, stats, fmt.Errorf("load households: %w", err)
	}

	records := make([]poverty.HouseholdRecord, 0, len(table.Rows))
	for i := range table.Rows {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("load households: %w", err)
		}
		stats.Rows++
		if isBlankRow(table.Rows[i]) {
			stats.BlankRows++
			continue
		}

		period, ok := parsePeriod(table.Cell(i, idx.period))
		if !ok {
			stats.SkippedPeriod++
			l.logger.DebugContext(ctx, "skipping row without a period",
				slog.Int("line", table.Line(i)),
				slog.String("value", table.Cell(i, idx.period)))
			continue
		}

		records = append(records, poverty.HouseholdRecord{
			Row:           table.Line(i),
			Period:        period,
			FamilySize:    parseNumber(table.Cell(i, idx.familySize)),
			NumChildren:   parseNumber(table.Cell(i, idx.children)),
			NominalIncome: parseNumber(table.Cell(i, idx.income)),
			PriceIndex:    parseNumber(table.Cell(i, idx.priceIndex)),
		})
	}
	stats.Loaded = len(records)

	l.logger.InfoContext(ctx, "household table loaded",
		slog.String("file", path),
		slog.String("sheet", table.Sheet),
		slog.Int("rows", stats.Rows),
		slog.Int("loaded", stats.Loaded),
		slog.Int("skipped_period", stats.SkippedPeriod),
		slog.Int("blank_rows", stats.BlankRows))

	return records, stats, nil
}

type householdIndex struct {
	period, familySize, children, income, priceIndex int
}

func (l *HouseholdLoader) resolveColumns(t *Table) (householdIndex, error) {
	var missing []string
	find := func(name string) int {
		i := t.Column(name)
		if i < 0 {
			missing = append(missing, name)
		}
		return i
	}

	idx := householdIndex{
		period:     find(l.columns.Period),
		familySize: find(l.columns.FamilySize),
		children:   find(l.columns.Children),
		income:     find(l.columns.Income),
		priceIndex: find(l.columns.PriceIndex),
	}
	if len(missing) > 0 {
		return idx, apperrors.Newf(apperrors.KindInvalidInput, "load_households",
			"%s is missing columns %s (have %s)", t.Source,
			strings.Join(missing, ", "), strings.Join(t.Header, ", "))
	}
	return idx, nil
}

// parsePeriod accepts integral values, including Stata-style "1999.0"
func parsePeriod(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// parseNumber returns NaN for blank or unparsable cells
func parseNumber(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
