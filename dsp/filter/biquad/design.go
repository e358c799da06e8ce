package biquad

import (
	"fmt"
	"math"

	"github.com/cwbudde/vocalsync/dsp/core"
)

// ButterworthQ gives a maximally flat second-order response.
const ButterworthQ = 1 / math.Sqrt2

// HighPass designs an RBJ cookbook high-pass section with cutoff freq Hz.
// A non-positive q selects ButterworthQ. freq must lie strictly between 0
// and the Nyquist frequency.
func HighPass(freq, q, sampleRate float64) (Coefficients, error) {
	w0, err := normalizedW0(freq, sampleRate)
	if err != nil {
		return Coefficients{}, err
	}
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		q = ButterworthQ
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 + cw) / 2
	b1 := -(1 + cw)
	b2 := (1 + cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return Coefficients{B0: b0 / a0, B1: b1 / a0, B2: b2 / a0, A1: a1 / a0, A2: a2 / a0}, nil
}

func normalizedW0(freq, sampleRate float64) (float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("%w: sample rate %v", core.ErrInvalidParameter, sampleRate)
	}
	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) {
		return 0, fmt.Errorf("%w: cutoff %v Hz at %v Hz", core.ErrInvalidParameter, freq, sampleRate)
	}
	return 2 * math.Pi * freq / sampleRate, nil
}

// MagnitudeDB returns the response magnitude at freqHz in dB.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw
	return 10 * math.Log10(num/den)
}
