package poverty

import (
	"fmt"
	"math"
	"sort"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
)

const (
	// MaxFamilySize is the open-ended "9 or more" family size bucket
	MaxFamilySize = 9
	// MaxChildren is the open-ended "8 or more" children bucket
	MaxChildren = 8
	// PriceIndexBase is the index value of the reference period
	PriceIndexBase = 100.0
	// IncomeFloor keeps zero and negative incomes out of ratio math
	IncomeFloor = 1e-10
)

// Key is a bucketed (family size, children) lookup key
type Key struct {
	FamilySize int `json:"family_size"`
	Children   int `json:"children"`
}

// String returns the key as "family/children"
func (k Key) String() string {
	return fmt.Sprintf("%d/%d", k.FamilySize, k.Children)
}

// Less orders keys by family size then children
func (k Key) Less(o Key) bool {
	if k.FamilySize != o.FamilySize {
		return k.FamilySize < o.FamilySize
	}
	return k.Children < o.Children
}

// HouseholdRecord is one household-period observation.
// Family size and children are kept as loaded; Normalize decides whether
// they are usable keys.
type HouseholdRecord struct {
	Row           int     `json:"row"`
	Period        int     `json:"period"`
	FamilySize    float64 `json:"family_size"`
	NumChildren   float64 `json:"num_children"`
	NominalIncome float64 `json:"nominal_income"`
	PriceIndex    float64 `json:"price_index"`
}

// FlooredIncome returns the nominal income clamped to IncomeFloor
func (r HouseholdRecord) FlooredIncome() float64 {
	return math.Max(r.NominalIncome, IncomeFloor)
}

// Classification is the derived result for one household record.
// Err is non-nil when the record was excluded from the rate.
type Classification struct {
	Record           HouseholdRecord `json:"record"`
	Key              Key             `json:"key"`
	NominalThreshold float64         `json:"nominal_threshold"`
	RealThreshold    float64         `json:"real_threshold"`
	RealIncome       float64         `json:"real_income"`
	BelowLine        bool            `json:"below_line"`
	Extrapolated     bool            `json:"extrapolated"`
	Err              error           `json:"-"`
}

// Excluded reports whether the record was left out of the rate
func (c Classification) Excluded() bool {
	return c.Err != nil
}

// Reason returns the exclusion kind, or "" for classified records
func (c Classification) Reason() apperrors.Kind {
	return apperrors.KindOf(c.Err)
}

// PovertyRateRow is the aggregate for one period
type PovertyRateRow struct {
	Period     int     `json:"period"`
	TotalCount int     `json:"total_count"`
	BelowCount int     `json:"below_count"`
	Rate       float64 `json:"rate"`
}

// IsValid checks the row invariants
func (r PovertyRateRow) IsValid() bool {
	return r.TotalCount > 0 && r.BelowCount >= 0 && r.BelowCount <= r.TotalCount &&
		r.Rate >= 0 && r.Rate <= 1
}

// KeyCount is a key with the number of households that carried it
type KeyCount struct {
	Key   Key `json:"key"`
	Count int `json:"count"`
}

// Result holds everything one classification run produces
type Result struct {
	Classifications []Classification       `json:"classifications"`
	Rates           []PovertyRateRow       `json:"rates"`
	Excluded        map[apperrors.Kind]int `json:"excluded"`
	Unresolved      []KeyCount             `json:"unresolved"`
	Extrapolated    []KeyCount             `json:"extrapolated"`
}

// Classified returns the number of records that entered the rate
func (r *Result) Classified() int {
	n := 0
	for _, row := range r.Rates {
		n += row.TotalCount
	}
	return n
}

// ExcludedTotal returns the number of records left out of the rate
func (r *Result) ExcludedTotal() int {
	n := 0
	for _, c := range r.Excluded {
		n += c
	}
	return n
}

func sortedKeyCounts(m map[Key]int) []KeyCount {
	out := make([]KeyCount, 0, len(m))
	for k, n := range m {
		out = append(out, KeyCount{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}
