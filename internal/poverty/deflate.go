package poverty

import (
	"math"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
)

// Deflate converts a nominal amount to reference-period dollars using a
// price index where PriceIndexBase marks the reference period.
//
// The classifier deflates both the household income and its threshold by
// the same index, so both real values share one base.
func Deflate(nominal, priceIndex float64) (float64, error) {
	if math.IsNaN(priceIndex) || math.IsInf(priceIndex, 0) || priceIndex <= 0 {
		return 0, apperrors.Newf(apperrors.KindInvalidPriceIndex, "deflate",
			"price index %v must be positive", priceIndex)
	}
	return nominal / (priceIndex / PriceIndexBase), nil
}
