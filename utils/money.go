package utils

import "github.com/shopspring/decimal"

// Round2 rounds x half away from zero to 2 decimal places.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// Money converts a stored float amount into a decimal for arithmetic.
func Money(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x)
}

// ToFloat rounds d to cents and returns it as float64 for storage and JSON.
func ToFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
