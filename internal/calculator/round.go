package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds v to places decimal digits, half away from zero, working on
// the shortest decimal representation of v. NaN and infinities pass through.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round2 rounds v to cents.
func Round2(v float64) float64 { return Round(v, 2) }

// PercentChange returns change/base*100, or 0 when base is 0.
func PercentChange(change, base float64) float64 {
	if base == 0 {
		return 0
	}
	return decimal.NewFromFloat(change).
		Div(decimal.NewFromFloat(base)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()
}
