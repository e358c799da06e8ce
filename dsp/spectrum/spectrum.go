package spectrum

import (
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/vocalsync/dsp/buffer"
)

var scratch = buffer.NewPool()

func split(in []complex128) (re, im []float64, buf *buffer.Buffer) {
	buf = scratch.Get(2 * len(in))
	s := buf.Samples()
	re, im = s[:len(in)], s[len(in):]
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return re, im, buf
}

// Magnitude returns |X[k]| for each complex bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := split(in)
	vecmath.Magnitude(out, re, im)
	scratch.Put(buf)

	return out
}

// Power returns |X[k]|^2 for each complex bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	PowerInto(out, in)

	return out
}

// PowerInto writes |X[k]|^2 into dst, which must be at least len(in) long.
func PowerInto(dst []float64, in []complex128) {
	if len(in) == 0 {
		return
	}

	re, im, buf := split(in)
	vecmath.Power(dst[:len(in)], re, im)
	scratch.Put(buf)
}

// BinFrequency returns the centre frequency in Hz of bin k for an FFT of
// size nfft at the given sample rate.
func BinFrequency(k, nfft int, sampleRate float64) float64 {
	if nfft <= 0 {
		return 0
	}
	return float64(k) * sampleRate / float64(nfft)
}

// BinFrequencies returns the frequencies of the nfft/2+1 non-negative bins.
func BinFrequencies(nfft int, sampleRate float64) []float64 {
	if nfft <= 0 {
		return nil
	}

	out := make([]float64, nfft/2+1)
	for k := range out {
		out[k] = BinFrequency(k, nfft, sampleRate)
	}

	return out
}

// NormalizeMax scales v in place so its largest value is 1. A vector whose
// maximum is not positive is left untouched.
func NormalizeMax(v []float64) {
	if len(v) == 0 {
		return
	}
	if peak := floats.Max(v); peak > 0 {
		floats.Scale(1/peak, v)
	}
}
