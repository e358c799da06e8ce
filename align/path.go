package align

import (
	"errors"
	"fmt"
)

var (
	// ErrDegeneratePath reports a path that is not monotonic, does not span
	// both sequences, or has a non-finite cost.
	ErrDegeneratePath = errors.New("align: degenerate alignment path")

	// ErrDimensionMismatch reports feature vectors of differing length.
	ErrDimensionMismatch = errors.New("align: feature dimension mismatch")
)

// Pair links a reference frame to a target frame.
type Pair struct {
	Ref    int
	Target int
}

// Path is an ordered list of pairs, non-decreasing in both coordinates.
type Path []Pair

// Validate checks that p starts at (0,0), ends at (n-1,m-1) and only moves
// by unit steps forward in one or both coordinates.
func (p Path) Validate(n, m int) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty", ErrDegeneratePath)
	}
	if p[0] != (Pair{}) {
		return fmt.Errorf("%w: starts at %v", ErrDegeneratePath, p[0])
	}
	if last := p[len(p)-1]; last != (Pair{Ref: n - 1, Target: m - 1}) {
		return fmt.Errorf("%w: ends at %v, want (%d,%d)", ErrDegeneratePath, last, n-1, m-1)
	}
	for k := 1; k < len(p); k++ {
		di := p[k].Ref - p[k-1].Ref
		dj := p[k].Target - p[k-1].Target
		if di < 0 || dj < 0 || di > 1 || dj > 1 || di+dj == 0 {
			return fmt.Errorf("%w: step %v -> %v", ErrDegeneratePath, p[k-1], p[k])
		}
	}
	return nil
}

// Ref returns the reference frame indices.
func (p Path) Ref() []int {
	out := make([]int, len(p))
	for k, q := range p {
		out[k] = q.Ref
	}
	return out
}

// Target returns the target frame indices.
func (p Path) Target() []int {
	out := make([]int, len(p))
	for k, q := range p {
		out[k] = q.Target
	}
	return out
}
