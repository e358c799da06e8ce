package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrEmpty is returned when a map is built from no knots.
	ErrEmpty = errors.New("interp: no knots")
	// ErrLengthMismatch is returned when x and y differ in length.
	ErrLengthMismatch = errors.New("interp: x/y length mismatch")
	// ErrNotIncreasing is returned when knot abscissae are not strictly increasing.
	ErrNotIncreasing = errors.New("interp: x must be strictly increasing")
)

// Mode selects how [Sample] reconstructs values between samples.
type Mode int

const (
	ModeLinear Mode = iota
	ModeHermite
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeHermite:
		return "hermite"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode is the inverse of [Mode.String].
func ParseMode(s string) (Mode, error) {
	switch s {
	case "linear", "":
		return ModeLinear, nil
	case "hermite":
		return ModeHermite, nil
	default:
		return 0, fmt.Errorf("interp: unknown mode %q", s)
	}
}

// Extrapolation controls [Piecewise.At] outside the knot range.
type Extrapolation int

const (
	// ExtrapolateLinear continues the first and last segments.
	ExtrapolateLinear Extrapolation = iota
	// ExtrapolateClamp holds the end values.
	ExtrapolateClamp
)

// Piecewise is a piecewise-linear map through a set of knots.
type Piecewise struct {
	x, y  []float64
	extra Extrapolation
}

// NewPiecewise builds a map through (x[i], y[i]). x must be strictly
// increasing. The slices are not copied.
func NewPiecewise(x, y []float64, extra Extrapolation) (*Piecewise, error) {
	if len(x) == 0 {
		return nil, ErrEmpty
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(x), len(y))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("%w at index %d", ErrNotIncreasing, i)
		}
	}
	return &Piecewise{x: x, y: y, extra: extra}, nil
}

// Len returns the knot count.
func (p *Piecewise) Len() int { return len(p.x) }

// At evaluates the map at q. A single-knot map is treated as a line of
// slope 1 through that knot when extrapolating linearly.
func (p *Piecewise) At(q float64) float64 {
	n := len(p.x)
	if n == 1 {
		if p.extra == ExtrapolateClamp {
			return p.y[0]
		}
		return p.y[0] + (q - p.x[0])
	}

	switch {
	case q <= p.x[0]:
		if p.extra == ExtrapolateClamp {
			return p.y[0]
		}
		return segment(p.x[0], p.x[1], p.y[0], p.y[1], q)
	case q >= p.x[n-1]:
		if p.extra == ExtrapolateClamp {
			return p.y[n-1]
		}
		return segment(p.x[n-2], p.x[n-1], p.y[n-2], p.y[n-1], q)
	}

	j := sort.SearchFloat64s(p.x, q)
	if p.x[j] == q {
		return p.y[j]
	}
	return segment(p.x[j-1], p.x[j], p.y[j-1], p.y[j], q)
}

// Eval evaluates the map at every query into dst, which must be at least
// len(queries) long.
func (p *Piecewise) Eval(dst, queries []float64) {
	for i, q := range queries {
		dst[i] = p.At(q)
	}
}

func segment(x0, x1, y0, y1, q float64) float64 {
	t := (q - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}

// Linear2 interpolates between x0 and x1 at fraction t.
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation from x0 to x1 using the
// neighbours xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// Sample reads samples at fractional index pos. Positions outside
// [0, len-1] are clamped to the end samples. NaN positions return NaN so
// callers can count and sanitize them. An empty signal yields 0.
func Sample(samples []float64, pos float64, mode Mode) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if math.IsNaN(pos) {
		return math.NaN()
	}
	if pos <= 0 {
		return samples[0]
	}
	last := float64(n - 1)
	if pos >= last {
		return samples[n-1]
	}

	i := int(pos)
	t := pos - float64(i)
	if t == 0 {
		return samples[i]
	}

	if mode == ModeHermite {
		return Hermite4(t, at(samples, i-1), samples[i], samples[i+1], at(samples, i+2))
	}
	return Linear2(t, samples[i], samples[i+1])
}

func at(samples []float64, i int) float64 {
	switch {
	case i < 0:
		return samples[0]
	case i >= len(samples):
		return samples[len(samples)-1]
	default:
		return samples[i]
	}
}
