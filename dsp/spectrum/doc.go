// Package spectrum provides helpers that operate on complex FFT bins produced
// elsewhere: magnitude and power extraction, bin frequencies, and per-frame
// normalization.
package spectrum
