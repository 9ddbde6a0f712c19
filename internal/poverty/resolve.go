package poverty

import (
	"sort"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
)

// ThresholdTable maps bucketed keys to nominal thresholds for one reference year
type ThresholdTable struct {
	types   []string
	primary string
	values  map[Key]map[string]float64

	// extrapolation fallbacks over the primary type
	maxLargestFamily   float64
	hasLargestFamily   bool
	maxLargestChildren float64
	hasLargestChildren bool
}

// Resolution is a threshold found for a key
type Resolution struct {
	Threshold    float64
	Extrapolated bool
}

func newThresholdTable(values map[Key]map[string]float64, typeSet map[string]struct{}, primary string) (*ThresholdTable, error) {
	types := sortedTypes(typeSet)
	if primary == "" {
		primary = types[0]
	} else if _, ok := typeSet[primary]; !ok {
		return nil, apperrors.Newf(apperrors.KindInvalidInput, "reshape",
			"threshold type %q not present in reference table (have %v)", primary, types)
	}

	t := &ThresholdTable{types: types, primary: primary, values: values}
	for k, byType := range values {
		v, ok := byType[primary]
		if !ok {
			continue
		}
		if k.FamilySize == MaxFamilySize && (!t.hasLargestFamily || v > t.maxLargestFamily) {
			t.maxLargestFamily, t.hasLargestFamily = v, true
		}
		if k.Children == MaxChildren && (!t.hasLargestChildren || v > t.maxLargestChildren) {
			t.maxLargestChildren, t.hasLargestChildren = v, true
		}
	}
	return t, nil
}

// Resolve finds the primary threshold for a bucketed key. An exact match wins;
// otherwise the open-ended family-size bucket, then the open-ended children
// bucket, fall back to the largest tabulated threshold in that bucket.
func (t *ThresholdTable) Resolve(k Key) (Resolution, error) {
	if v, ok := t.Value(k, t.primary); ok {
		return Resolution{Threshold: v}, nil
	}
	switch {
	case k.FamilySize == MaxFamilySize && t.hasLargestFamily:
		return Resolution{Threshold: t.maxLargestFamily, Extrapolated: true}, nil
	case k.Children == MaxChildren && t.hasLargestChildren:
		return Resolution{Threshold: t.maxLargestChildren, Extrapolated: true}, nil
	}
	return Resolution{}, apperrors.Newf(apperrors.KindUnresolvedThreshold, "resolve",
		"no %s for family size %d, children %d", t.primary, k.FamilySize, k.Children).
		WithContext("family_size", k.FamilySize).
		WithContext("children", k.Children)
}

// Value returns the threshold of the given type for an exact key
func (t *ThresholdTable) Value(k Key, thresholdType string) (float64, bool) {
	byType, ok := t.values[k]
	if !ok {
		return 0, false
	}
	v, ok := byType[thresholdType]
	return v, ok
}

// Primary returns the threshold type used for classification
func (t *ThresholdTable) Primary() string {
	return t.primary
}

// Types returns all threshold types in sorted order
func (t *ThresholdTable) Types() []string {
	return append([]string(nil), t.types...)
}

// Keys returns every key in the table in ascending order
func (t *ThresholdTable) Keys() []Key {
	keys := make([]Key, 0, len(t.values))
	for k := range t.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Len returns the number of keys
func (t *ThresholdTable) Len() int {
	return len(t.values)
}
