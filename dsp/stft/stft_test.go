package stft

import (
	"errors"
	"testing"

	"github.com/cwbudde/vocalsync/dsp/core"
	"github.com/cwbudde/vocalsync/dsp/spectrum"
	"github.com/cwbudde/vocalsync/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(1, 256); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err=%v want ErrInvalidParameter", err)
	}
	if _, err := New(1024, 0); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err=%v want ErrInvalidParameter", err)
	}
}

func TestPowerShape(t *testing.T) {
	a, err := New(1024, 256)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rows := a.Power(testutil.DeterministicNoise(1, 0.1, 2000))
	if len(rows) != 1+2000/256 {
		t.Fatalf("rows=%d want %d", len(rows), 1+2000/256)
	}
	for _, r := range rows {
		if len(r) != a.Bins() {
			t.Fatalf("row len=%d want %d", len(r), a.Bins())
		}
		testutil.RequireFinite(t, r)
	}
	if got := a.Power(nil); len(got) != 0 {
		t.Fatalf("expected no rows for empty input, got %d", len(got))
	}
}

func TestPowerPeakBin(t *testing.T) {
	const sr = 22050.0
	a, _ := New(4096, 1024)

	// Bin 100 is exactly 100*sr/4096 Hz.
	freq := spectrum.BinFrequency(100, 4096, sr)
	rows := a.Power(testutil.DeterministicSine(freq, sr, 0.5, 22050))

	mid := rows[len(rows)/2]
	peak := 0
	for k := range mid {
		if mid[k] > mid[peak] {
			peak = k
		}
	}
	if peak != 100 {
		t.Fatalf("peak bin=%d want 100", peak)
	}
}

func BenchmarkPower(b *testing.B) {
	a, _ := New(4096, 1024)
	sig := testutil.DeterministicNoise(3, 0.5, 22050*5)
	b.ReportAllocs()
	for b.Loop() {
		a.Power(sig)
	}
}
