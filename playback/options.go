package playback

import (
	"log/slog"
	"time"
)

// Option configures a Session or an Engine.
type Option func(*config)

type config struct {
	initialWidth float64
	lead         float64
	span         float64
	pitchMin     float64
	pitchMax     float64
	period       time.Duration
	render       func(Snapshot)
	logger       *slog.Logger
}

func defaultConfig() config {
	return config{
		initialWidth: 5,
		lead:         5,
		span:         10,
		pitchMin:     100,
		pitchMax:     1000,
		period:       33 * time.Millisecond,
		logger:       slog.Default(),
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithScroll sets how far the marker stays from the left edge once the
// window scrolls (lead) and the width of the scrolled window (span).
// Defaults are 5 s and 10 s. Span must exceed lead.
func WithScroll(lead, span float64) Option {
	return func(c *config) {
		if lead > 0 && span > lead {
			c.lead = lead
			c.span = span
		}
	}
}

// WithInitialWidth sets the width of the window shown before any scroll.
func WithInitialWidth(seconds float64) Option {
	return func(c *config) {
		if seconds > 0 {
			c.initialWidth = seconds
		}
	}
}

// WithPitchRange sets the fixed vertical display range in Hz.
func WithPitchRange(lo, hi float64) Option {
	return func(c *config) {
		if lo > 0 && hi > lo {
			c.pitchMin = lo
			c.pitchMax = hi
		}
	}
}

// WithTickPeriod sets the Engine's scheduler period. Default 33 ms.
func WithTickPeriod(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.period = d
		}
	}
}

// WithRender registers a callback that receives every Engine snapshot.
func WithRender(fn func(Snapshot)) Option {
	return func(c *config) {
		c.render = fn
	}
}

// WithLogger sets the Engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
