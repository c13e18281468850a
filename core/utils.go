package core

import (
	"math"
	"strconv"
)

// Returns the smaller of two quantities
func MinQuantity(a, b float64) float64 {
	if a <= b {
		return a
	}
	return b
}

// Returns the larger of two quantities
func MaxQuantity(a, b float64) float64 {
	if a >= b {
		return a
	}
	return b
}

// Sum adds up a series left to right.
func Sum(values []float64) (total float64) {
	for _, v := range values {
		total += v
	}
	return
}

// FormatQuantity prints whole numbers without a fractional part and
// everything else with at most two decimals.
func FormatQuantity(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// PercentChange returns (to-from)/from*100, or 0 when from is 0.
func PercentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
