package spectrum

import (
	"math"
	"testing"
)

func TestMagnitudePower(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0}

	mag := Magnitude(bins)
	if len(mag) != len(bins) {
		t.Fatalf("Magnitude length mismatch: got=%d want=%d", len(mag), len(bins))
	}
	if math.Abs(mag[0]-5) > 1e-12 {
		t.Fatalf("Magnitude[0]=%f want=5", mag[0])
	}

	pow := Power(bins)
	if math.Abs(pow[0]-25) > 1e-12 || math.Abs(pow[1]-2) > 1e-12 || pow[2] != 0 {
		t.Fatalf("Power=%v", pow)
	}
}

func TestEmptyInputs(t *testing.T) {
	if Magnitude(nil) != nil || Power(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
	if BinFrequencies(0, 22050) != nil {
		t.Fatal("expected nil for nfft=0")
	}
}

func TestBinFrequencies(t *testing.T) {
	f := BinFrequencies(8, 8000)
	if len(f) != 5 {
		t.Fatalf("len=%d want=5", len(f))
	}
	if f[1] != 1000 || f[4] != 4000 {
		t.Fatalf("unexpected frequencies: %v", f)
	}
}

func TestNormalizeMax(t *testing.T) {
	v := []float64{1, 4, 2}
	NormalizeMax(v)
	if v[1] != 1 || v[0] != 0.25 || v[2] != 0.5 {
		t.Fatalf("NormalizeMax=%v", v)
	}

	silent := []float64{0, 0, 0}
	NormalizeMax(silent)
	for _, x := range silent {
		if x != 0 {
			t.Fatalf("silent frame changed: %v", silent)
		}
	}
}
