package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds half away from zero to cents.
func Round2(value float64) float64 {
	return RoundTo(value, 2)
}

// RoundTo rounds value to the given number of decimal places. Rounding goes
// through a decimal so that 1.005 becomes 1.01 rather than 1.00.
func RoundTo(value float64, places int32) float64 {
	if !IsFinite(value) {
		return value
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// Percent formats a percentage with two decimals, e.g. "10.38%".
func Percent(value float64) string {
	if !IsFinite(value) {
		return "n/a"
	}
	return decimal.NewFromFloat(value).StringFixed(2) + "%"
}

// IsFinite reports whether value is neither NaN nor an infinity.
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}
