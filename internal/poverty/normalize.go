package poverty

import (
	"math"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
)

// Normalize buckets a family size and child count into a threshold key.
// Both values must be finite, non-negative integers; larger values collapse
// into the open-ended MaxFamilySize and MaxChildren buckets.
func Normalize(familySize, numChildren float64) (Key, error) {
	size, err := toCount(familySize)
	if err != nil {
		return Key{}, apperrors.Newf(apperrors.KindInvalidKey, "normalize",
			"family size %v is not a non-negative integer", familySize)
	}
	children, err := toCount(numChildren)
	if err != nil {
		return Key{}, apperrors.Newf(apperrors.KindInvalidKey, "normalize",
			"child count %v is not a non-negative integer", numChildren)
	}
	return BucketKey(size, children), nil
}

// BucketKey caps already-validated counts at the open-ended buckets
func BucketKey(familySize, children int) Key {
	return Key{
		FamilySize: min(familySize, MaxFamilySize),
		Children:   min(children, MaxChildren),
	}
}

func toCount(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) {
		return 0, apperrors.ErrInvalidKey
	}
	// anything this large is capped anyway
	if v > math.MaxInt32 {
		return math.MaxInt32, nil
	}
	return int(v), nil
}
