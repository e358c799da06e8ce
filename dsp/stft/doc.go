// Package stft computes short-time power spectra of mono signals.
//
// Frames follow the centred hop grid of package frame, are tapered with a
// periodic window and transformed with gonum's real FFT.
package stft
