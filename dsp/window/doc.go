// Package window generates the tapering windows used to frame audio before
// spectral or periodicity analysis.
//
// Only the cosine-sum family needed by the analysis stages is provided:
// rectangular, Hann, Hamming and Blackman. Use [WithPeriodic] when the window
// feeds an FFT, the symmetric form otherwise.
package window
