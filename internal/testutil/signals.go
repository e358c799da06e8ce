package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// HarmonicTone generates a tone with the given number of harmonics whose
// amplitudes fall off as 1/k, a crude stand-in for a sung vowel.
func HarmonicTone(freqHz, sampleRate, amplitude float64, harmonics, length int) []float64 {
	out := make([]float64, length)
	for k := 1; k <= harmonics; k++ {
		if freqHz*float64(k) >= sampleRate/2 {
			break
		}
		step := 2 * math.Pi * freqHz * float64(k) / sampleRate
		a := amplitude / float64(k)
		for i := range out {
			out[i] += a * math.Sin(step*float64(i))
		}
	}
	return out
}

// Glide generates an exponential sweep from f0 to f1 Hz.
func Glide(f0, f1, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	if length == 0 {
		return out
	}
	ratio := f1 / f0
	phase := 0.0
	for i := range out {
		f := f0 * math.Pow(ratio, float64(i)/float64(length))
		out[i] = amplitude * math.Sin(phase)
		phase += 2 * math.Pi * f / sampleRate
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Silence returns length zero samples.
func Silence(length int) []float64 {
	return make([]float64, length)
}

// Concat joins signals end to end into a new slice.
func Concat(parts ...[]float64) []float64 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]float64, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
