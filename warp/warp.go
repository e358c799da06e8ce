package warp

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/vocalsync/align"
	"github.com/cwbudde/vocalsync/audio"
	"github.com/cwbudde/vocalsync/dsp/core"
	"github.com/cwbudde/vocalsync/dsp/interp"
)

// Option configures Warp.
type Option func(*config)

type config struct {
	mode   interp.Mode
	logger *slog.Logger
}

func defaultConfig() config {
	return config{mode: interp.ModeLinear, logger: slog.Default()}
}

// WithInterpolation selects how the reference is read between samples.
// Default is linear.
func WithInterpolation(m interp.Mode) Option {
	return func(c *config) {
		c.mode = m
	}
}

// WithLogger sets the logger used to report sanitized samples.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Warp resamples ref onto the target timeline described by path. The
// output has ref's sample rate and round(T*rate) samples, where T is the
// time of the last target frame in path. Non-finite results are replaced
// by 0, +1 or -1.
func Warp(ref audio.Waveform, path align.Path, hop int, opts ...Option) (audio.Waveform, error) {
	if ref.Len() == 0 {
		return audio.Waveform{}, fmt.Errorf("%w: empty reference", core.ErrInputTooShort)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	tm, err := NewTimeMap(path, hop, ref.SampleRate)
	if err != nil {
		return audio.Waveform{}, err
	}

	sr := float64(ref.SampleRate)
	n := int(math.Round(tm.Duration() * sr))
	if n <= 0 {
		return audio.Waveform{}, fmt.Errorf("%w: target spans %.3fs", core.ErrInputTooShort, tm.Duration())
	}

	out := make([]float64, n)
	for i := range out {
		pos := tm.RefTime(float64(i)/sr) * sr
		out[i] = interp.Sample(ref.Samples, pos, cfg.mode)
	}

	w := audio.New(out, ref.SampleRate)
	if replaced := w.Sanitize(); replaced > 0 {
		cfg.logger.Warn("sanitized warped samples", "err", core.ErrNonFiniteSample, "count", replaced)
	}

	return w, nil
}
