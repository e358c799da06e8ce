package pitch

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/vocalsync/dsp/core"
	"github.com/cwbudde/vocalsync/internal/testutil"
)

const sr = 22050

func TestTrackSine(t *testing.T) {
	for _, freq := range []float64{110, 220, 440, 880} {
		c, err := Track(testutil.DeterministicSine(freq, sr, 0.5, sr), sr)
		if err != nil {
			t.Fatalf("Track(%v) error = %v", freq, err)
		}
		// Skip frames that overlap the zero padding at either end.
		for i := 4; i < c.Len()-4; i++ {
			if !c.Voiced[i] {
				t.Fatalf("%v Hz: frame %d unvoiced", freq, i)
			}
			if d := math.Abs(c.F0[i]-freq) / freq; d > 0.01 {
				t.Fatalf("%v Hz: frame %d f0=%v", freq, i, c.F0[i])
			}
		}
	}
}

func TestTrackHarmonicTone(t *testing.T) {
	c, err := Track(testutil.HarmonicTone(196, sr, 0.4, 8, sr), sr)
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if m := c.Median(); math.Abs(m-196)/196 > 0.01 {
		t.Fatalf("median=%v want ~196", m)
	}
}

func TestTrackSilence(t *testing.T) {
	c, err := Track(testutil.Silence(sr/2), sr)
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if c.VoicedCount() != 0 {
		t.Fatalf("voiced=%d want 0", c.VoicedCount())
	}
	for i, f := range c.F0 {
		if !IsUnvoiced(f) {
			t.Fatalf("frame %d f0=%v want NaN", i, f)
		}
	}
	if !math.IsNaN(c.Median()) {
		t.Fatal("median of unvoiced contour should be NaN")
	}
}

func TestTrackBounds(t *testing.T) {
	sig := testutil.Concat(
		testutil.DeterministicNoise(9, 0.3, sr/2),
		testutil.Glide(70, 1200, sr, 0.5, sr),
	)
	c, err := Track(sig, sr, WithWorkers(3))
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	for i, f := range c.F0 {
		if c.Voiced[i] != !IsUnvoiced(f) {
			t.Fatalf("frame %d: voiced flag %v disagrees with f0 %v", i, c.Voiced[i], f)
		}
		if c.Voiced[i] && (f < 80 || f > 1000) {
			t.Fatalf("frame %d: f0=%v outside [80,1000]", i, f)
		}
		if p := c.VoicedProb[i]; p < 0 || p > 1 {
			t.Fatalf("frame %d: voiced prob %v", i, p)
		}
	}
}

func TestTrackGlideRises(t *testing.T) {
	c, err := Track(testutil.Glide(200, 400, sr, 0.5, sr), sr)
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	half := c.Len() / 2
	first := Contour{F0: c.F0[:half], Voiced: c.Voiced[:half]}
	second := Contour{F0: c.F0[half:], Voiced: c.Voiced[half:]}
	if !(second.Median() > first.Median()) {
		t.Fatalf("glide not rising: %v then %v", first.Median(), second.Median())
	}
}

func TestTrackFollowsOctaveLeap(t *testing.T) {
	noisy := func(freq float64, seed int64) []float64 {
		tone := testutil.HarmonicTone(freq, sr, 0.4, 6, sr/2)
		noise := testutil.DeterministicNoise(seed, 0.01, sr/2)
		for i := range tone {
			tone[i] += noise[i]
		}
		return tone
	}

	tests := []struct {
		name     string
		sig      []float64
		from, to float64
	}{
		{"harmonic 220 to 440", testutil.Concat(noisy(220, 1), noisy(440, 2)), 220, 440},
		{"harmonic 200 to 800", testutil.Concat(noisy(200, 3), noisy(800, 4)), 200, 800},
		{"harmonic 150 to 600", testutil.Concat(noisy(150, 5), noisy(600, 6)), 150, 600},
		{
			"sine 880 to 110",
			testutil.Concat(
				testutil.DeterministicSine(880, sr, 0.5, sr/2),
				testutil.DeterministicSine(110, sr, 0.5, sr/2),
			),
			880, 110,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Track(tt.sig, sr)
			if err != nil {
				t.Fatalf("Track() error = %v", err)
			}
			edge := (sr / 2) / 256
			check := func(lo, hi int, want float64) {
				for i := lo; i < hi; i++ {
					if !c.Voiced[i] {
						t.Fatalf("frame %d unvoiced, want %v Hz", i, want)
					}
					if d := math.Abs(c.F0[i]-want) / want; d > 0.02 {
						t.Fatalf("frame %d f0=%v want %v", i, c.F0[i], want)
					}
				}
			}
			check(6, edge-6, tt.from)
			check(edge+6, c.Len()-6, tt.to)
		})
	}
}

func TestTrackVoicingSegments(t *testing.T) {
	tone := testutil.DeterministicSine(300, sr, 0.5, sr/2)
	c, err := Track(testutil.Concat(tone, testutil.Silence(sr/2), tone), sr)
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	fsr := float64(sr)
	mid := int(0.75 * fsr / 256)
	if c.Voiced[mid] {
		t.Fatalf("frame %d in the gap is voiced", mid)
	}
	if !c.Voiced[int(0.25*fsr/256)] || !c.Voiced[int(1.25*fsr/256)] {
		t.Fatal("tone segments should be voiced")
	}
}

func TestTrackTimes(t *testing.T) {
	c, err := Track(testutil.DeterministicSine(220, sr, 0.5, 2048), sr, WithHopLength(512))
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if c.Len() != 5 {
		t.Fatalf("Len=%d want 5", c.Len())
	}
	for i, tm := range c.Times {
		testutil.RequireNearlyEqual(t, tm, float64(i*512)/sr, 1e-15)
	}
}

func TestTrackErrors(t *testing.T) {
	if _, err := Track(nil, sr); !errors.Is(err, core.ErrInputTooShort) {
		t.Fatalf("err=%v want ErrInputTooShort", err)
	}
	if _, err := Track([]float64{0, 0}, 0); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err=%v want ErrInvalidParameter", err)
	}
	_, err := Track(make([]float64, 1000), 8000, WithFrameLength(64), WithRange(20, 30))
	if !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err=%v want ErrInvalidParameter", err)
	}
}

func TestPriorsNormalized(t *testing.T) {
	p := newThresholdPrior(defaultConfig())
	sum := 0.0
	for _, m := range p.mass {
		sum += m
	}
	testutil.RequireNearlyEqual(t, sum, 1, 1e-9)

	for _, n := range []int{1, 2, 7} {
		total := 0.0
		for k := range n {
			total += boltzmannPMF(k, n, 2)
		}
		testutil.RequireNearlyEqual(t, total, 1, 1e-12)
	}
}

func TestTransitionRowsNormalized(t *testing.T) {
	tr := newTransition(30, 11)
	for j, row := range tr.logp {
		sum := 0.0
		for _, lp := range row {
			sum += math.Exp(lp)
		}
		testutil.RequireNearlyEqual(t, sum, 1, 1e-12)
		if j == 15 && row[tr.half] <= row[0] {
			t.Fatal("transition should peak at zero jump")
		}
	}
}

func TestTroughs(t *testing.T) {
	x := []float64{1, 0.5, 0.7, 0.2, 0.2, 0.9, 0.4}
	got := troughs(x, 1, 6)
	want := []int{1, 3, 6}
	if len(got) != len(want) {
		t.Fatalf("troughs=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("troughs=%v want %v", got, want)
		}
	}
}

func TestParabolicShift(t *testing.T) {
	// Samples of (x-2.25)^2 at 1,2,3: vertex at 2.25.
	x := []float64{0, 1.5625, 0.0625, 0.5625}
	testutil.RequireNearlyEqual(t, parabolicShift(x, 2), 0.25, 1e-12)
	if parabolicShift(x, 0) != 0 || parabolicShift(x, 3) != 0 {
		t.Fatal("edge shifts should be 0")
	}
}
