package resample

import (
	"math"
	"testing"

	"github.com/cwbudde/vocalsync/internal/testutil"
)

func TestNewRationalValidation(t *testing.T) {
	if _, err := NewRational(0, 1); err == nil {
		t.Fatal("expected error for up=0")
	}
	if _, err := NewRational(1, 0); err == nil {
		t.Fatal("expected error for down=0")
	}
	if _, err := NewForRates(0, 22050); err == nil {
		t.Fatal("expected error for zero rate")
	}
}

func TestRatioReduction(t *testing.T) {
	r, err := NewForRates(44100, 22050)
	if err != nil {
		t.Fatalf("NewForRates() error = %v", err)
	}
	up, down := r.Ratio()
	if up != 1 || down != 2 {
		t.Fatalf("ratio = %d/%d, want 1/2", up, down)
	}

	r, err = NewForRates(48000, 22050)
	if err != nil {
		t.Fatalf("NewForRates() error = %v", err)
	}
	up, down = r.Ratio()
	if up != 147 || down != 320 {
		t.Fatalf("ratio = %d/%d, want 147/320", up, down)
	}
}

func TestConvertLength(t *testing.T) {
	for _, tc := range []struct{ in, out int }{
		{44100, 22050},
		{48000, 22050},
		{16000, 22050},
		{22050, 22050},
	} {
		in := testutil.DeterministicSine(440, float64(tc.in), 0.5, 4410)
		got, err := Convert(in, tc.in, tc.out, WithQuality(QualityFast))
		if err != nil {
			t.Fatalf("Convert(%d->%d) error = %v", tc.in, tc.out, err)
		}
		want := int(math.Round(float64(len(in)) * float64(tc.out) / float64(tc.in)))
		if len(got) != want {
			t.Fatalf("%d->%d len=%d want=%d", tc.in, tc.out, len(got), want)
		}
	}
}

func TestConvertPreservesAlignment(t *testing.T) {
	// A 200 Hz tone decimated 2:1 must stay in phase with the reference
	// generated directly at the output rate once the group delay is removed.
	in := testutil.DeterministicSine(200, 44100, 0.8, 8820)
	got, err := Convert(in, 44100, 22050, WithQuality(QualityBest))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	ref := testutil.DeterministicSine(200, 22050, 0.8, len(got))

	// Skip the edges where the filter sees the implicit zero padding.
	for i := 200; i < len(got)-200; i++ {
		if d := math.Abs(got[i] - ref[i]); d > 0.02 {
			t.Fatalf("sample %d: got %v want %v", i, got[i], ref[i])
		}
	}
}

func TestConvertIdentityCopies(t *testing.T) {
	in := []float64{1, 2, 3}
	out, err := Convert(in, 22050, 22050)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	out[0] = 9
	if in[0] != 1 {
		t.Fatal("identity conversion aliased its input")
	}
}

func TestStreamingMatchesOneShot(t *testing.T) {
	in := testutil.DeterministicNoise(7, 1, 1000)

	a, _ := NewRational(3, 2)
	whole := a.Process(in)

	b, _ := NewRational(3, 2)
	var parts []float64
	for i := 0; i < len(in); i += 137 {
		parts = append(parts, b.Process(in[i:min(i+137, len(in))])...)
	}

	testutil.RequireSliceNearlyEqual(t, parts, whole, 1e-12)
}

func TestParseQuality(t *testing.T) {
	for _, q := range []Quality{QualityFast, QualityBalanced, QualityBest} {
		got, ok := ParseQuality(q.String())
		if !ok || got != q {
			t.Fatalf("ParseQuality(%q) = %v,%v", q.String(), got, ok)
		}
	}
	if _, ok := ParseQuality("ultra"); ok {
		t.Fatal("expected unknown quality to report false")
	}
}
