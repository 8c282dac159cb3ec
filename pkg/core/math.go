package core

import (
	"math"

	"golang.org/x/exp/constraints"
)

// OneMinusEpsilon is the largest float64 below 1
const OneMinusEpsilon = 0x1.fffffffffffffp-1

// Clamp restricts v to [lo, hi]
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly between a and b
func Lerp[T constraints.Float](t, a, b T) T {
	return (1-t)*a + t*b
}

// SafeSqrt returns the square root of max(0, v)
func SafeSqrt(v float64) float64 {
	return math.Sqrt(math.Max(0, v))
}

// Radians converts degrees to radians
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
