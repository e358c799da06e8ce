package core

import (
	"math"

	"golang.org/x/exp/constraints"
)

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](value, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}

	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// SanitizeValue maps a single sample into the finite audio range:
// NaN becomes 0, +Inf becomes +1 and -Inf becomes -1. Finite values pass
// through untouched.
func SanitizeValue[T constraints.Float](x T) T {
	f := float64(x)
	switch {
	case math.IsNaN(f):
		return 0
	case math.IsInf(f, 1):
		return 1
	case math.IsInf(f, -1):
		return -1
	}

	return x
}

// Sanitize replaces non-finite samples in place using SanitizeValue and
// returns how many were replaced.
func Sanitize[T constraints.Float](samples []T) int {
	replaced := 0
	for i, x := range samples {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			samples[i] = SanitizeValue(x)
			replaced++
		}
	}

	return replaced
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}
