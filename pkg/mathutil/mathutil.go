// Package mathutil provides common mathematical utility functions.
package mathutil

import "math"

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// BitsToFloat and FloatToBits let float64 values live in atomic.Uint64 cells.
func BitsToFloat(bits uint64) float64 {
	return math.Float64frombits(bits)
}

// FloatToBits is the inverse of BitsToFloat.
func FloatToBits(val float64) uint64 {
	return math.Float64bits(val)
}
