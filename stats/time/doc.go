// Package time computes time-domain level statistics: RMS, peak, DC and
// block-wise dBFS levels used for silence detection and loudness matching.
package time
