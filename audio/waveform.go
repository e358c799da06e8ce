package audio

import (
	"github.com/cwbudde/vocalsync/dsp/core"
)

// Waveform is a mono signal at a fixed sample rate.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// New wraps samples without copying.
func New(samples []float64, sampleRate int) Waveform {
	return Waveform{Samples: samples, SampleRate: sampleRate}
}

// Len returns the number of samples.
func (w Waveform) Len() int { return len(w.Samples) }

// Duration returns the length in seconds.
func (w Waveform) Duration() float64 {
	return core.SamplesToTime(len(w.Samples), w.SampleRate)
}

// Slice returns the samples in [start, end) as a Waveform sharing storage.
// Bounds are clamped.
func (w Waveform) Slice(start, end int) Waveform {
	start = core.Clamp(start, 0, len(w.Samples))
	end = core.Clamp(end, start, len(w.Samples))
	return Waveform{Samples: w.Samples[start:end], SampleRate: w.SampleRate}
}

// Clone returns a deep copy.
func (w Waveform) Clone() Waveform {
	s := make([]float64, len(w.Samples))
	copy(s, w.Samples)
	return Waveform{Samples: s, SampleRate: w.SampleRate}
}

// Sanitize replaces non-finite samples in place and returns the count.
func (w Waveform) Sanitize() int {
	return core.Sanitize(w.Samples)
}
