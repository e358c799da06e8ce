// Package resample converts mono signals between sample rates with a
// polyphase windowed-sinc FIR.
//
// Recordings are brought to the analysis rate with [Convert], which removes
// the filter's group delay so that sample i of the output lines up with time
// i/outRate of the input. [Resampler] exposes the streaming form.
//
// Quality modes:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
