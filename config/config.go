// Package config loads the vocalsync pipeline settings from YAML.
//
// Every field has a default, so an absent file or a partial file is valid.
// Validate runs once after loading; stages read the typed values and never
// re-parse anything.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid reports a configuration value outside its domain.
var ErrInvalid = errors.New("config: invalid value")

// Config is the full application configuration.
type Config struct {
	// Library is the directory holding one folder per song.
	Library string `yaml:"library"`
	// Catalog is the SQLite database path. Empty means
	// <library>/vocalsync.db.
	Catalog string `yaml:"catalog"`

	Sync      Sync      `yaml:"sync"`
	Pitch     Pitch     `yaml:"pitch"`
	Prep      Prep      `yaml:"prep"`
	Separator Separator `yaml:"separator"`
	Playback  Playback  `yaml:"playback"`
}

// Sync configures chroma extraction, alignment and warping.
type Sync struct {
	SampleRate int `yaml:"sample_rate"`
	HopLength  int `yaml:"hop_length"`
	FFTSize    int `yaml:"fft_size"`
	// Band is the Sakoe-Chiba radius in frames; 0 aligns without a band.
	Band    int    `yaml:"band"`
	Workers int    `yaml:"workers"`
	Interp  string `yaml:"interpolation"`
}

// Pitch configures the pYIN tracker.
type Pitch struct {
	SampleRate  int     `yaml:"sample_rate"`
	HopLength   int     `yaml:"hop_length"`
	FrameLength int     `yaml:"frame_length"`
	FMin        float64 `yaml:"fmin"`
	FMax        float64 `yaml:"fmax"`
	Workers     int     `yaml:"workers"`
}

// Prep configures silence trimming and normalisation.
type Prep struct {
	ThresholdDB float64       `yaml:"threshold_db"`
	Block       time.Duration `yaml:"block"`
	TargetDB    float64       `yaml:"target_db"`
	// HighPassHz removes rumble below this frequency; 0 disables it.
	HighPassHz float64 `yaml:"highpass_hz"`
}

// Separator configures the vocal isolation model.
type Separator struct {
	Enabled bool     `yaml:"enabled"`
	Command []string `yaml:"command,flow"`
	Model   string   `yaml:"model"`
}

// Playback configures the reveal engine and its display.
type Playback struct {
	Tick     time.Duration `yaml:"tick"`
	Lead     float64       `yaml:"lead"`
	Span     float64       `yaml:"span"`
	PitchMin float64       `yaml:"pitch_min"`
	PitchMax float64       `yaml:"pitch_max"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Library: "files",
		Sync: Sync{
			SampleRate: 22050,
			HopLength:  1024,
			FFTSize:    4096,
			Interp:     "linear",
		},
		Pitch: Pitch{
			SampleRate:  22050,
			HopLength:   256,
			FrameLength: 1024,
			FMin:        80,
			FMax:        1000,
		},
		Prep: Prep{
			ThresholdDB: -40,
			Block:       time.Millisecond,
			TargetDB:    -20,
			HighPassHz:  60,
		},
		Separator: Separator{
			Enabled: true,
			Command: []string{"python", "-m", "demucs"},
			Model:   "htdemucs",
		},
		Playback: Playback{
			Tick:     33 * time.Millisecond,
			Lead:     5,
			Span:     10,
			PitchMin: 100,
			PitchMax: 1000,
		},
	}
}

// CatalogPath resolves the database location.
func (c Config) CatalogPath() string {
	if c.Catalog != "" {
		return c.Catalog
	}
	return filepath.Join(c.Library, "vocalsync.db")
}

// Load reads path over the defaults and validates the result. A missing
// file yields the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Decode reads YAML from r over the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Encode writes c as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks every field once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	check(c.Library != "", "library must be set")

	check(c.Sync.SampleRate > 0, "sync.sample_rate %d", c.Sync.SampleRate)
	check(c.Sync.HopLength > 0, "sync.hop_length %d", c.Sync.HopLength)
	check(c.Sync.FFTSize >= c.Sync.HopLength, "sync.fft_size %d below hop %d", c.Sync.FFTSize, c.Sync.HopLength)
	check(c.Sync.Band >= 0, "sync.band %d", c.Sync.Band)
	check(c.Sync.Workers >= 0, "sync.workers %d", c.Sync.Workers)
	check(c.Sync.Interp == "linear" || c.Sync.Interp == "hermite", "sync.interpolation %q", c.Sync.Interp)

	check(c.Pitch.SampleRate > 0, "pitch.sample_rate %d", c.Pitch.SampleRate)
	check(c.Pitch.HopLength > 0, "pitch.hop_length %d", c.Pitch.HopLength)
	check(c.Pitch.FrameLength > c.Pitch.HopLength, "pitch.frame_length %d not above hop %d", c.Pitch.FrameLength, c.Pitch.HopLength)
	check(finite(c.Pitch.FMin) && c.Pitch.FMin > 0, "pitch.fmin %v", c.Pitch.FMin)
	check(finite(c.Pitch.FMax) && c.Pitch.FMax > c.Pitch.FMin, "pitch.fmax %v not above fmin", c.Pitch.FMax)
	check(c.Pitch.FMax < float64(c.Pitch.SampleRate)/2, "pitch.fmax %v above Nyquist", c.Pitch.FMax)
	check(c.Pitch.Workers >= 0, "pitch.workers %d", c.Pitch.Workers)

	check(finite(c.Prep.ThresholdDB) && c.Prep.ThresholdDB < 0, "prep.threshold_db %v", c.Prep.ThresholdDB)
	check(c.Prep.Block > 0, "prep.block %v", c.Prep.Block)
	check(finite(c.Prep.TargetDB) && c.Prep.TargetDB <= 0, "prep.target_db %v", c.Prep.TargetDB)
	check(finite(c.Prep.HighPassHz) && c.Prep.HighPassHz >= 0, "prep.highpass_hz %v", c.Prep.HighPassHz)

	check(!c.Separator.Enabled || len(c.Separator.Command) > 0, "separator.command is empty")

	check(c.Playback.Tick > 0, "playback.tick %v", c.Playback.Tick)
	check(c.Playback.Lead > 0 && c.Playback.Span > c.Playback.Lead, "playback lead %v span %v", c.Playback.Lead, c.Playback.Span)
	check(c.Playback.PitchMin > 0 && c.Playback.PitchMax > c.Playback.PitchMin,
		"playback pitch range %v..%v", c.Playback.PitchMin, c.Playback.PitchMax)

	return errors.Join(errs...)
}
