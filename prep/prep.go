package prep

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cwbudde/vocalsync/audio"
	"github.com/cwbudde/vocalsync/dsp/core"
	"github.com/cwbudde/vocalsync/dsp/filter/biquad"
	stats "github.com/cwbudde/vocalsync/stats/time"
	"github.com/cwbudde/vocalsync/track"
)

// Defaults used by Run.
const (
	DefaultThresholdDB = -40.0
	DefaultBlock       = time.Millisecond
	DefaultTargetDB    = -20.0
)

// TrimSilence removes the silent head and tail of w. The signal is cut into
// blocks of the given duration; the first and last block whose RMS level
// exceeds thresholdDB bound the kept region. offset is the start of the
// kept region in seconds, computed from its sample index.
//
// An input with no block above the threshold reports core.ErrInputTooShort.
func TrimSilence(w audio.Waveform, thresholdDB float64, block time.Duration) (trimmed audio.Waveform, offset float64, err error) {
	if w.SampleRate <= 0 {
		return audio.Waveform{}, 0, fmt.Errorf("%w: sample rate %d", core.ErrInvalidParameter, w.SampleRate)
	}
	if block <= 0 {
		return audio.Waveform{}, 0, fmt.Errorf("%w: block %v", core.ErrInvalidParameter, block)
	}

	size := max(1, int(math.Round(block.Seconds()*float64(w.SampleRate))))
	levels := stats.BlockLevels(w.Samples, size)

	first := stats.FirstAbove(levels, thresholdDB)
	if first < 0 {
		return audio.Waveform{}, 0, fmt.Errorf("%w: no block above %.1f dBFS", core.ErrInputTooShort, thresholdDB)
	}
	last := stats.LastAbove(levels, thresholdDB)

	start := first * size
	end := min((last+1)*size, w.Len())
	return w.Slice(start, end).Clone(), float64(start) / float64(w.SampleRate), nil
}

// Normalize scales w to an RMS level of targetDB dBFS. A silent input is
// returned unchanged.
func Normalize(w audio.Waveform, targetDB float64) audio.Waveform {
	rms := stats.RMS(w.Samples)
	if rms == 0 || math.IsNaN(rms) || math.IsInf(rms, 0) {
		return w
	}

	gain := core.DBToLinear(targetDB) / rms
	out := make([]float64, w.Len())
	for i, x := range w.Samples {
		out[i] = x * gain
	}
	return audio.New(out, w.SampleRate)
}

// Option configures Run.
type Option func(*config)

type config struct {
	thresholdDB float64
	block       time.Duration
	targetDB    float64
	highPassHz  float64
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		thresholdDB: DefaultThresholdDB,
		block:       DefaultBlock,
		targetDB:    DefaultTargetDB,
		logger:      slog.Default(),
	}
}

// WithThreshold sets the silence threshold in dBFS.
func WithThreshold(db float64) Option {
	return func(c *config) {
		if !math.IsNaN(db) && db < 0 {
			c.thresholdDB = db
		}
	}
}

// WithBlock sets the analysis block duration.
func WithBlock(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.block = d
		}
	}
}

// WithTarget sets the RMS normalisation target in dBFS.
func WithTarget(db float64) Option {
	return func(c *config) {
		if !math.IsNaN(db) && db <= 0 {
			c.targetDB = db
		}
	}
}

// WithHighPass removes content below hz with a Butterworth high-pass before
// trimming. Zero, the default, disables the filter.
func WithHighPass(hz float64) Option {
	return func(c *config) {
		if hz >= 0 {
			c.highPassHz = hz
		}
	}
}

// RemoveRumble high-pass filters a copy of w at hz.
func RemoveRumble(w audio.Waveform, hz float64) (audio.Waveform, error) {
	c, err := biquad.HighPass(hz, biquad.ButterworthQ, float64(w.SampleRate))
	if err != nil {
		return audio.Waveform{}, err
	}
	out := w.Clone()
	biquad.NewSection(c).ProcessBlock(out.Samples)
	return out, nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Result reports what Run removed.
type Result struct {
	LiveStart   float64
	StudioStart float64
}

// Run trims and normalises the isolated live and studio vocals of a song,
// writes the trimmed files and stores the start offsets in its metadata.
func Run(l track.Layout, opts ...Option) (Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := track.Require(l.LiveVocals(), l.StudioVocals()); err != nil {
		return Result{}, err
	}
	meta, err := track.ReadMetadata(l.Metadata())
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, job := range []struct {
		name     string
		src, dst string
		offset   *float64
	}{
		{"studio", l.StudioVocals(), l.StudioTrimmed(), &res.StudioStart},
		{"live", l.LiveVocals(), l.LiveTrimmed(), &res.LiveStart},
	} {
		w, err := audio.Load(job.src, 0, audio.WithLogger(cfg.logger))
		if err != nil {
			return Result{}, err
		}

		if cfg.highPassHz > 0 {
			if w, err = RemoveRumble(w, cfg.highPassHz); err != nil {
				return Result{}, fmt.Errorf("prep: %s vocals: %w", job.name, err)
			}
		}

		trimmed, offset, err := TrimSilence(w, cfg.thresholdDB, cfg.block)
		if err != nil {
			return Result{}, fmt.Errorf("prep: %s vocals: %w", job.name, err)
		}
		if err := audio.Save(job.dst, Normalize(trimmed, cfg.targetDB)); err != nil {
			return Result{}, err
		}

		*job.offset = offset
		cfg.logger.Debug("trimmed vocals", "track", job.name, "offset", offset,
			"kept", trimmed.Duration(), "of", w.Duration())
	}

	meta.LiveStart = res.LiveStart
	meta.StudioStart = res.StudioStart
	if err := track.WriteMetadata(l.Metadata(), meta); err != nil {
		return Result{}, err
	}
	return res, nil
}
