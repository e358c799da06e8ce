package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/youpy/go-wav"

	"github.com/cwbudde/vocalsync/dsp/core"
	"github.com/cwbudde/vocalsync/dsp/resample"
)

const pcmBits = 16

// ErrFormat reports a WAV stream that cannot be decoded.
var ErrFormat = errors.New("audio: unsupported wav format")

// Option configures decoding.
type Option func(*config)

type config struct {
	quality resample.Quality
	logger  *slog.Logger
}

func defaultConfig() config {
	return config{quality: resample.QualityBalanced, logger: slog.Default()}
}

// WithQuality selects the sample-rate conversion quality.
func WithQuality(q resample.Quality) Option {
	return func(c *config) {
		c.quality = q
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

// Load reads a WAV file, mixes it to mono and converts it to targetRate.
// A non-positive targetRate keeps the file's own rate.
func Load(path string, targetRate int, opts ...Option) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, err
	}
	defer f.Close()

	w, err := decode(f, targetRate, opts...)
	if err != nil {
		return Waveform{}, fmt.Errorf("audio: load %s: %w", path, err)
	}
	return w, nil
}

// Decode reads a complete WAV stream from r.
func Decode(r io.Reader, targetRate int, opts ...Option) (Waveform, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Waveform{}, err
	}
	return decode(bytes.NewReader(data), targetRate, opts...)
}

type riffSource interface {
	io.Reader
	io.ReaderAt
}

func decode(src riffSource, targetRate int, opts ...Option) (Waveform, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	rd := wav.NewReader(src)
	format, err := rd.Format()
	if err != nil {
		return Waveform{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if format.NumChannels == 0 || format.SampleRate == 0 {
		return Waveform{}, fmt.Errorf("%w: %d channels at %d Hz", ErrFormat, format.NumChannels, format.SampleRate)
	}

	channels := uint(format.NumChannels)
	var mono []float64
	for {
		samples, err := rd.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Waveform{}, err
		}
		for _, s := range samples {
			var sum float64
			for ch := range channels {
				sum += rd.FloatValue(s, ch)
			}
			mono = append(mono, sum/float64(channels))
		}
	}

	w := New(mono, int(format.SampleRate))
	if n := w.Sanitize(); n > 0 {
		cfg.logger.Warn("sanitized decoded samples", "err", core.ErrNonFiniteSample, "count", n)
	}

	if targetRate <= 0 || targetRate == w.SampleRate {
		return w, nil
	}

	converted, err := resample.Convert(w.Samples, w.SampleRate, targetRate, resample.WithQuality(cfg.quality))
	if err != nil {
		return Waveform{}, err
	}
	return New(converted, targetRate), nil
}

// Save writes w to path as 16-bit mono PCM.
func Save(path string, w Waveform) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, w); err != nil {
		f.Close()
		return fmt.Errorf("audio: save %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes w as 16-bit mono PCM. Samples are clipped to [-1, 1].
func Encode(dst io.Writer, w Waveform) error {
	if w.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", core.ErrInvalidParameter, w.SampleRate)
	}

	wr := wav.NewWriter(dst, uint32(len(w.Samples)), 1, uint32(w.SampleRate), pcmBits)

	scale := math.Pow(2, pcmBits-1)
	out := make([]wav.Sample, len(w.Samples))
	for i, x := range w.Samples {
		x = core.Clamp(core.SanitizeValue(x), -1, 1)
		out[i] = wav.Sample{Values: [2]int{int(core.Clamp(math.Round(x*scale), -scale, scale-1))}}
	}

	return wr.WriteSamples(out)
}
