package feature

import (
	"fmt"
	"math"

	"github.com/cwbudde/vocalsync/dsp/core"
	"github.com/cwbudde/vocalsync/dsp/frame"
	"github.com/cwbudde/vocalsync/dsp/spectrum"
	"github.com/cwbudde/vocalsync/dsp/stft"
)

// PitchClasses is the chroma dimension.
const PitchClasses = 12

// Sequence is an ordered run of equal-length feature vectors on a hop grid.
type Sequence struct {
	Vectors    [][]float64
	HopLength  int
	SampleRate int
}

// Len returns the number of frames.
func (s Sequence) Len() int { return len(s.Vectors) }

// Dim returns the vector dimension, 0 for an empty sequence.
func (s Sequence) Dim() int {
	if len(s.Vectors) == 0 {
		return 0
	}
	return len(s.Vectors[0])
}

// Time returns the time of frame i in seconds.
func (s Sequence) Time(i int) float64 {
	return frame.Time(i, s.HopLength, s.SampleRate)
}

// Option configures chroma extraction.
type Option func(*config)

type config struct {
	fftSize int
	tuning  float64
	minFreq float64
	maxFreq float64
}

func defaultConfig() config {
	return config{
		fftSize: 4096,
		tuning:  440,
		minFreq: 65.4,   // C2
		maxFreq: 2093.0, // C7
	}
}

// WithFFTSize sets the analysis window and FFT length. Default 4096.
func WithFFTSize(n int) Option {
	return func(c *config) {
		if n >= 2 {
			c.fftSize = n
		}
	}
}

// WithTuning sets the reference frequency of A4. Default 440 Hz.
func WithTuning(a4 float64) Option {
	return func(c *config) {
		if a4 > 0 {
			c.tuning = a4
		}
	}
}

// WithFrequencyRange limits the bins folded into chroma.
func WithFrequencyRange(lo, hi float64) Option {
	return func(c *config) {
		if lo > 0 && hi > lo {
			c.minFreq, c.maxFreq = lo, hi
		}
	}
}

type binWeight struct {
	bin    int
	lo, hi int
	wLo    float64
	wHi    float64
}

// Chroma extracts one chroma vector per hop. Each vector is scaled so its
// largest entry is 1; frames without energy stay all zero. A signal too
// short to produce a frame yields an empty Sequence and no error, callers
// that need features must check Len.
func Chroma(samples []float64, sampleRate, hop int, opts ...Option) (Sequence, error) {
	if sampleRate <= 0 {
		return Sequence{}, fmt.Errorf("%w: sample rate %d", core.ErrInvalidParameter, sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	an, err := stft.New(cfg.fftSize, hop)
	if err != nil {
		return Sequence{}, err
	}

	weights := foldWeights(cfg, sampleRate)
	power := an.Power(samples)

	vectors := make([][]float64, len(power))
	for i, row := range power {
		v := make([]float64, PitchClasses)
		for _, w := range weights {
			p := row[w.bin]
			v[w.lo] += w.wLo * p
			v[w.hi] += w.wHi * p
		}
		spectrum.NormalizeMax(v)
		vectors[i] = v
	}

	return Sequence{Vectors: vectors, HopLength: hop, SampleRate: sampleRate}, nil
}

// foldWeights maps every FFT bin inside the frequency range onto the two
// nearest pitch classes with triangular weights.
func foldWeights(cfg config, sampleRate int) []binWeight {
	freqs := spectrum.BinFrequencies(cfg.fftSize, float64(sampleRate))

	var out []binWeight
	for k, f := range freqs {
		if f < cfg.minFreq || f > cfg.maxFreq {
			continue
		}
		// MIDI note 60 is C, so pitch class 0 is C.
		midi := 69 + 12*math.Log2(f/cfg.tuning)
		pc := math.Mod(midi, PitchClasses)
		if pc < 0 {
			pc += PitchClasses
		}
		lo := int(math.Floor(pc))
		frac := pc - float64(lo)
		out = append(out, binWeight{
			bin: k,
			lo:  lo % PitchClasses,
			hi:  (lo + 1) % PitchClasses,
			wLo: 1 - frac,
			wHi: frac,
		})
	}
	return out
}
