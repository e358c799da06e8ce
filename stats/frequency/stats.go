// Package frequency summarises one-sided power spectra. The vocal tools use
// it to describe the long-term spectrum of a recording: where its energy
// sits and how noise-like it is.
package frequency

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/vocalsync/dsp/spectrum"
)

// Profile describes a power spectrum with bins from DC to Nyquist.
type Profile struct {
	Peak     float64 // frequency of the strongest bin (Hz)
	Centroid float64 // power-weighted mean frequency (Hz)
	Rolloff  float64 // frequency below which 85% of the power lies (Hz)
	Flatness float64 // geometric over arithmetic mean, 0..1
}

// Average returns the bin-wise mean of equally sized power frames.
func Average(frames [][]float64) []float64 {
	if len(frames) == 0 {
		return nil
	}
	mean := make([]float64, len(frames[0]))
	for _, f := range frames {
		floats.Add(mean, f)
	}
	floats.Scale(1/float64(len(frames)), mean)
	return mean
}

func nfft(power []float64) int { return 2 * (len(power) - 1) }

// Describe computes every Profile field.
func Describe(power []float64, sampleRate float64) Profile {
	if len(power) < 2 {
		return Profile{}
	}
	return Profile{
		Peak:     spectrum.BinFrequency(floats.MaxIdx(power), nfft(power), sampleRate),
		Centroid: Centroid(power, sampleRate),
		Rolloff:  Rolloff(power, sampleRate, 0.85),
		Flatness: Flatness(power),
	}
}

// Centroid returns the power-weighted mean frequency, 0 for a silent
// spectrum.
func Centroid(power []float64, sampleRate float64) float64 {
	total := floats.Sum(power)
	if len(power) < 2 || total == 0 {
		return 0
	}
	return floats.Dot(power, spectrum.BinFrequencies(nfft(power), sampleRate)) / total
}

// Flatness is the Wiener entropy of the bins above DC. A single empty bin
// makes it 0.
func Flatness(power []float64) float64 {
	if len(power) < 2 {
		return 0
	}
	bins := power[1:]

	mean := floats.Sum(bins) / float64(len(bins))
	if mean == 0 {
		return 0
	}
	var logSum float64
	for _, p := range bins {
		if p <= 0 {
			return 0
		}
		logSum += math.Log(p)
	}
	return math.Exp(logSum/float64(len(bins))) / mean
}

// Rolloff returns the lowest bin frequency at which the cumulative power
// reaches fraction of the total.
func Rolloff(power []float64, sampleRate, fraction float64) float64 {
	total := floats.Sum(power)
	if len(power) < 2 || total == 0 {
		return 0
	}
	threshold := fraction * total
	var cum float64
	for i, p := range power {
		cum += p
		if cum >= threshold {
			return spectrum.BinFrequency(i, nfft(power), sampleRate)
		}
	}
	return sampleRate / 2
}
