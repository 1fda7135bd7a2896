package model

import (
	"math"
	"strconv"
)

// PriceToCents converts a decimal currency amount, as stored in the
// catalog file, to integer cents.
func PriceToCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CentsToPrice is the inverse of PriceToCents, used where the wire
// format wants a decimal amount.
func CentsToPrice(cents int64) float64 {
	return float64(cents) / 100
}

// FormatCents renders an amount in cents with exactly two decimals.
func FormatCents(cents int64) string {
	return strconv.FormatFloat(CentsToPrice(cents), 'f', 2, 64)
}
