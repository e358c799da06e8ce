package core

import "fmt"

// AnalysisConfig describes a hop grid laid over a waveform: frame i starts
// (or is centred) at sample i*HopLength and spans FrameLength samples.
type AnalysisConfig struct {
	SampleRate  int
	HopLength   int
	FrameLength int
}

// AnalysisOption mutates an AnalysisConfig.
type AnalysisOption func(*AnalysisConfig)

// DefaultAnalysisConfig returns the pitch-tracking grid used by the
// pipeline: 22.05 kHz, hop 256, frame 1024.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		SampleRate:  22050,
		HopLength:   256,
		FrameLength: 1024,
	}
}

// WithSampleRate sets the processing sample rate in Hz.
func WithSampleRate(sampleRate int) AnalysisOption {
	return func(cfg *AnalysisConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithHopLength sets the hop between consecutive frames in samples.
func WithHopLength(hop int) AnalysisOption {
	return func(cfg *AnalysisConfig) {
		if hop > 0 {
			cfg.HopLength = hop
		}
	}
}

// WithFrameLength sets the analysis window length in samples.
func WithFrameLength(n int) AnalysisOption {
	return func(cfg *AnalysisConfig) {
		if n > 0 {
			cfg.FrameLength = n
		}
	}
}

// ApplyAnalysisOptions applies zero or more options to the default config.
func ApplyAnalysisOptions(opts ...AnalysisOption) AnalysisConfig {
	cfg := DefaultAnalysisConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate checks that every field is usable.
func (c AnalysisConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidParameter, c.SampleRate)
	}
	if c.HopLength <= 0 {
		return fmt.Errorf("%w: hop length %d", ErrInvalidParameter, c.HopLength)
	}
	if c.FrameLength <= 0 {
		return fmt.Errorf("%w: frame length %d", ErrInvalidParameter, c.FrameLength)
	}
	return nil
}

// FrameTime converts a frame index into seconds using the hop and sample rate.
func (c AnalysisConfig) FrameTime(i int) float64 {
	return FrameToTime(i, c.HopLength, c.SampleRate)
}

// FrameToTime converts a frame index on a hop grid into seconds.
func FrameToTime(i, hop, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(i) * float64(hop) / float64(sampleRate)
}

// SamplesToTime converts a sample count into seconds.
func SamplesToTime(n, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(n) / float64(sampleRate)
}
