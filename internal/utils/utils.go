package utils

import (
	"errors"
	"fmt"
	"math"
)

// FloatToUnits scales x by 10^decimals and converts it to uint64.
// Returns an error if the scaled value is not within 1e-3 of an integer,
// which prevents accidental precision loss when rounding.
func FloatToUnits(x float64, decimals int) (uint64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("invalid float value: %v", x)
	}
	if x < 0 {
		return 0, fmt.Errorf("negative value: %v", x)
	}

	withDecimals := x * math.Pow10(decimals)
	rounded := math.Round(withDecimals)

	if math.Abs(rounded-withDecimals) >= 1e-3 {
		return 0, errors.New("float_to_units causes rounding")
	}

	return uint64(rounded), nil
}

// UnitsToFloat is the inverse of FloatToUnits.
func UnitsToFloat(units uint64, decimals int) float64 {
	return float64(units) / math.Pow10(decimals)
}

// RoundToSigfig rounds x to n significant figures.
func RoundToSigfig(x float64, n int) float64 {
	if x == 0 {
		return 0
	}
	magnitude := math.Ceil(math.Log10(math.Abs(x)))
	power := float64(n) - magnitude
	scale := math.Pow(10, power)
	return math.Round(x*scale) / scale
}
