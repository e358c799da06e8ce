package pitch

import (
	"math"
	"slices"
)

// Contour is a framewise pitch estimate with its time axis.
type Contour struct {
	Times      []float64 // seconds, frame i at i*hop/sampleRate
	F0         []float64 // Hz, NaN when unvoiced
	Voiced     []bool
	VoicedProb []float64
}

// Len returns the number of frames.
func (c Contour) Len() int { return len(c.F0) }

// IsUnvoiced reports whether f is the unvoiced marker.
func IsUnvoiced(f float64) bool { return math.IsNaN(f) }

// VoicedCount returns how many frames are voiced.
func (c Contour) VoicedCount() int {
	n := 0
	for _, v := range c.Voiced {
		if v {
			n++
		}
	}
	return n
}

// Median returns the median voiced frequency, NaN if nothing is voiced.
func (c Contour) Median() float64 {
	var voiced []float64
	for i, f := range c.F0 {
		if c.Voiced[i] {
			voiced = append(voiced, f)
		}
	}
	if len(voiced) == 0 {
		return math.NaN()
	}
	slices.Sort(voiced)
	mid := len(voiced) / 2
	if len(voiced)%2 == 1 {
		return voiced[mid]
	}
	return 0.5 * (voiced[mid-1] + voiced[mid])
}
