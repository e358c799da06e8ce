package time

import (
	"math"
	"testing"

	"github.com/cwbudde/vocalsync/internal/testutil"
)

func TestCalculateSine(t *testing.T) {
	s := Calculate(testutil.DeterministicSine(100, 22050, 1, 22050))
	if math.Abs(s.RMS-1/math.Sqrt2) > 1e-3 {
		t.Fatalf("RMS=%v want %v", s.RMS, 1/math.Sqrt2)
	}
	if math.Abs(s.RMSdB+3.0103) > 0.01 {
		t.Fatalf("RMSdB=%v want -3.01", s.RMSdB)
	}
	if math.Abs(s.CrestFactor-math.Sqrt2) > 1e-2 {
		t.Fatalf("crest=%v", s.CrestFactor)
	}
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	if s.Length != 0 || !math.IsInf(s.RMSdB, -1) || !math.IsInf(s.PeakdB, -1) {
		t.Fatalf("unexpected empty stats: %+v", s)
	}
}

func TestCalculateDC(t *testing.T) {
	s := Calculate(testutil.DC(-0.5, 10))
	if s.DC != -0.5 || s.Peak != 0.5 || s.RMS != 0.5 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestBlockLevels(t *testing.T) {
	sig := append(make([]float64, 20), testutil.DC(0.1, 25)...)
	levels := BlockLevels(sig, 10)
	if len(levels) != 5 {
		t.Fatalf("len=%d want 5", len(levels))
	}
	if !math.IsInf(levels[0], -1) || !math.IsInf(levels[1], -1) {
		t.Fatalf("silent blocks should be -Inf: %v", levels)
	}
	if math.Abs(levels[2]+20) > 1e-9 {
		t.Fatalf("levels[2]=%v want -20", levels[2])
	}
	if got := FirstAbove(levels, -40); got != 2 {
		t.Fatalf("FirstAbove=%d want 2", got)
	}
	if got := FirstAbove(levels, 0); got != -1 {
		t.Fatalf("FirstAbove=%d want -1", got)
	}
	if got := LastAbove(levels, -40); got != 4 {
		t.Fatalf("LastAbove=%d want 4", got)
	}
	if got := LastAbove(levels[:2], -40); got != -1 {
		t.Fatalf("LastAbove=%d want -1", got)
	}
}

func TestBlockLevelsInvalid(t *testing.T) {
	if BlockLevels([]float64{1}, 0) != nil {
		t.Fatal("expected nil for zero block size")
	}
}
