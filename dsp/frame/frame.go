// Package frame cuts signals into overlapping analysis frames on a hop grid.
//
// Frames are centred: frame i covers samples around i*hop, and samples that
// fall outside the signal read as zero. A signal of n samples therefore
// yields 1 + n/hop frames, and frame i sits at time i*hop/sampleRate.
package frame

// Count returns the number of centred frames for n samples. An empty
// signal has no frames.
func Count(n, hop int) int {
	if n <= 0 || hop <= 0 {
		return 0
	}
	return 1 + n/hop
}

// Time returns the time in seconds of frame i.
func Time(i, hop, sampleRate int) float64 {
	return float64(i*hop) / float64(sampleRate)
}

// Times returns the time axis of count frames.
func Times(count, hop, sampleRate int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = Time(i, hop, sampleRate)
	}
	return out
}

// Centered copies the len(dst) samples centred on i*hop into dst,
// zero-filling whatever lies outside signal.
func Centered(dst, signal []float64, i, hop int) {
	start := i*hop - len(dst)/2
	for k := range dst {
		j := start + k
		if j < 0 || j >= len(signal) {
			dst[k] = 0
			continue
		}
		dst[k] = signal[j]
	}
}
