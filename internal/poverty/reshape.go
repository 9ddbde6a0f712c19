package poverty

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
)

// DefaultThresholdType tags reference values that carry no type of their own
const DefaultThresholdType = "threshold"

// RawThresholdRow is one long-format reference row as read from the source
type RawThresholdRow struct {
	Line            int
	FamilySizeLabel string
	ChildrenLabel   string
	ThresholdType   string
	Value           float64
}

// TableOptions configures the reference-table build
type TableOptions struct {
	// PrimaryType selects the threshold type used for classification.
	// Empty means the first type in sorted order.
	PrimaryType string
}

// WideOptions configures the melt of a wide reference table
type WideOptions struct {
	// FamilyColumn names the family-size column; empty means the first column
	FamilyColumn string
	// TypeColumn names an optional per-row threshold type column
	TypeColumn string
	// ThresholdType tags rows when no type column is present
	ThresholdType string
}

// ReshapeStats summarises a reference-table build
type ReshapeStats struct {
	Rows    int `json:"rows"`
	Dropped int `json:"dropped"`
	Capped  int `json:"capped"`
}

type cellRef struct {
	key   Key
	ttype string
}

// BuildLong pivots long-format reference rows into a ThresholdTable keyed by
// bucketed (family size, children) with one value per threshold type.
// Rows without a parsable family size are dropped. Two rows landing on the
// same key and type fail the build with an ambiguous-reference-row error.
func BuildLong(rows []RawThresholdRow, opts TableOptions) (*ThresholdTable, ReshapeStats, error) {
	stats := ReshapeStats{Rows: len(rows)}
	values := make(map[Key]map[string]float64)
	seen := make(map[cellRef]int)
	typeSet := make(map[string]struct{})

	for _, row := range rows {
		size, ok := LeadingInt(row.FamilySizeLabel)
		if !ok {
			stats.Dropped++
			continue
		}
		children := 0
		if strings.TrimSpace(row.ChildrenLabel) != "" {
			if children, ok = LeadingInt(row.ChildrenLabel); !ok {
				stats.Dropped++
				continue
			}
		}
		if math.IsNaN(row.Value) || math.IsInf(row.Value, 0) {
			stats.Dropped++
			continue
		}

		ttype := strings.TrimSpace(row.ThresholdType)
		if ttype == "" {
			ttype = DefaultThresholdType
		}

		key := BucketKey(size, children)
		if key.FamilySize != size || key.Children != children {
			stats.Capped++
		}

		ref := cellRef{key: key, ttype: ttype}
		if prev, dup := seen[ref]; dup {
			return nil, stats, apperrors.Newf(apperrors.KindAmbiguousReferenceRow, "reshape",
				"lines %d and %d both map to family size %d, children %d, type %q",
				prev, row.Line, key.FamilySize, key.Children, ttype).
				WithContext("family_size", key.FamilySize).
				WithContext("children", key.Children).
				WithContext("threshold_type", ttype)
		}
		seen[ref] = row.Line

		if values[key] == nil {
			values[key] = make(map[string]float64)
		}
		values[key][ttype] = row.Value
		typeSet[ttype] = struct{}{}
	}

	if len(values) == 0 {
		return nil, stats, apperrors.New(apperrors.KindInvalidInput, "reshape",
			"reference table has no usable rows")
	}

	table, err := newThresholdTable(values, typeSet, opts.PrimaryType)
	if err != nil {
		return nil, stats, err
	}
	return table, stats, nil
}

// MeltWide turns a wide reference table (one row per family size, one column
// per children bucket) into long rows ready for BuildLong. Columns whose header
// has no leading integer, such as a weighted average, are ignored.
func MeltWide(header []string, rows [][]string, opts WideOptions) ([]RawThresholdRow, error) {
	if len(header) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidInput, "melt", "wide table has no header")
	}

	familyIdx := 0
	if opts.FamilyColumn != "" {
		familyIdx = indexOf(header, opts.FamilyColumn)
		if familyIdx < 0 {
			return nil, apperrors.Newf(apperrors.KindInvalidInput, "melt",
				"family column %q not found", opts.FamilyColumn)
		}
	}
	typeIdx := -1
	if opts.TypeColumn != "" {
		typeIdx = indexOf(header, opts.TypeColumn)
	}
	defaultType := opts.ThresholdType
	if defaultType == "" {
		defaultType = DefaultThresholdType
	}

	type childCol struct {
		idx   int
		label string
	}
	var cols []childCol
	for i, h := range header {
		if i == familyIdx || i == typeIdx {
			continue
		}
		if _, ok := LeadingInt(h); ok {
			cols = append(cols, childCol{idx: i, label: strings.TrimSpace(h)})
		}
	}
	if len(cols) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidInput, "melt",
			"wide table has no children columns")
	}

	var out []RawThresholdRow
	for r, row := range rows {
		line := r + 2 // header is line 1
		family := cellAt(row, familyIdx)
		ttype := defaultType
		if typeIdx >= 0 {
			if t := cellAt(row, typeIdx); t != "" {
				ttype = t
			}
		}
		for _, col := range cols {
			raw := cellAt(row, col.idx)
			if raw == "" {
				continue
			}
			v, err := ParseAmount(raw)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.KindInvalidInput, "melt", err,
					fmt.Sprintf("line %d column %q", line, header[col.idx]))
			}
			out = append(out, RawThresholdRow{
				Line:            line,
				FamilySizeLabel: family,
				ChildrenLabel:   col.label,
				ThresholdType:   ttype,
				Value:           v,
			})
		}
	}
	return out, nil
}

// LeadingInt extracts the integer a free-text label starts with,
// e.g. "9 or more" gives 9.
func LeadingInt(label string) (int, bool) {
	s := strings.TrimSpace(label)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseAmount parses a dollar amount, tolerating "$" and thousands separators
func ParseAmount(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func sortedTypes(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
