package interp

import (
	"errors"
	"math"
	"testing"
)

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestPiecewiseValidation(t *testing.T) {
	if _, err := NewPiecewise(nil, nil, ExtrapolateLinear); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err=%v want ErrEmpty", err)
	}
	if _, err := NewPiecewise([]float64{0, 1}, []float64{0}, ExtrapolateLinear); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err=%v want ErrLengthMismatch", err)
	}
	if _, err := NewPiecewise([]float64{0, 0}, []float64{0, 1}, ExtrapolateLinear); !errors.Is(err, ErrNotIncreasing) {
		t.Fatalf("err=%v want ErrNotIncreasing", err)
	}
}

func TestPiecewiseAt(t *testing.T) {
	p, err := NewPiecewise([]float64{0, 1, 3}, []float64{0, 2, 3}, ExtrapolateLinear)
	if err != nil {
		t.Fatalf("NewPiecewise() error = %v", err)
	}

	for _, tc := range []struct{ q, want float64 }{
		{q: -1, want: -2},
		{q: 0, want: 0},
		{q: 0.5, want: 1},
		{q: 1, want: 2},
		{q: 2, want: 2.5},
		{q: 5, want: 4},
	} {
		if got := p.At(tc.q); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("At(%v)=%v want %v", tc.q, got, tc.want)
		}
	}
}

func TestPiecewiseClamp(t *testing.T) {
	p, _ := NewPiecewise([]float64{0, 1}, []float64{10, 20}, ExtrapolateClamp)
	if p.At(-5) != 10 || p.At(7) != 20 {
		t.Fatalf("clamp failed: %v %v", p.At(-5), p.At(7))
	}
}

func TestPiecewiseSingleKnot(t *testing.T) {
	p, _ := NewPiecewise([]float64{2}, []float64{5}, ExtrapolateLinear)
	if got := p.At(4); got != 7 {
		t.Fatalf("At(4)=%v want 7", got)
	}
}

func TestSample(t *testing.T) {
	s := []float64{0, 1, 4, 9}

	if got := Sample(s, 1.5, ModeLinear); got != 2.5 {
		t.Fatalf("linear got %v want 2.5", got)
	}
	if got := Sample(s, -3, ModeLinear); got != 0 {
		t.Fatalf("clamped low got %v", got)
	}
	if got := Sample(s, 99, ModeHermite); got != 9 {
		t.Fatalf("clamped high got %v", got)
	}
	if got := Sample(s, 2, ModeHermite); got != 4 {
		t.Fatalf("integer position got %v", got)
	}
	if !math.IsNaN(Sample(s, math.NaN(), ModeLinear)) {
		t.Fatal("expected NaN for NaN position")
	}
	if Sample(nil, 1, ModeLinear) != 0 {
		t.Fatal("expected 0 for empty signal")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeLinear, ModeHermite} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q)=%v,%v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("cubic"); err == nil {
		t.Fatal("expected error")
	}
}
