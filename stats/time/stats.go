package time

import "math"

// Stats holds level statistics of a signal.
type Stats struct {
	Length      int
	DC          float64
	RMS         float64
	RMSdB       float64
	Peak        float64
	PeakdB      float64
	CrestFactor float64
}

// AmpTodB converts a linear amplitude to dBFS. Returns -Inf for zero.
func AmpTodB(value float64) float64 {
	if value <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(value)
}

// Calculate computes all statistics in a single pass.
func Calculate(signal []float64) Stats {
	if len(signal) == 0 {
		return Stats{RMSdB: math.Inf(-1), PeakdB: math.Inf(-1)}
	}

	var sum, sumSq, peak float64
	for _, v := range signal {
		sum += v
		sumSq += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	n := float64(len(signal))
	rms := math.Sqrt(sumSq / n)
	s := Stats{
		Length: len(signal),
		DC:     sum / n,
		RMS:    rms,
		RMSdB:  AmpTodB(rms),
		Peak:   peak,
		PeakdB: AmpTodB(peak),
	}
	if rms > 0 {
		s.CrestFactor = peak / rms
	}
	return s
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range signal {
		sumSq += v * v
	}
	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, v := range signal {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// BlockLevels returns the RMS level in dBFS of consecutive blocks of
// blockSize samples. The final partial block is included.
func BlockLevels(signal []float64, blockSize int) []float64 {
	if blockSize <= 0 || len(signal) == 0 {
		return nil
	}

	out := make([]float64, 0, (len(signal)+blockSize-1)/blockSize)
	for start := 0; start < len(signal); start += blockSize {
		end := min(start+blockSize, len(signal))
		out = append(out, AmpTodB(RMS(signal[start:end])))
	}
	return out
}

// FirstAbove returns the index of the first level strictly above
// thresholdDB, or -1 if none is.
func FirstAbove(levels []float64, thresholdDB float64) int {
	for i, l := range levels {
		if l > thresholdDB {
			return i
		}
	}
	return -1
}

// LastAbove returns the index of the last level strictly above
// thresholdDB, or -1 if none is.
func LastAbove(levels []float64, thresholdDB float64) int {
	for i := len(levels) - 1; i >= 0; i-- {
		if levels[i] > thresholdDB {
			return i
		}
	}
	return -1
}
