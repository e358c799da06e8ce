package stft

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/vocalsync/dsp/buffer"
	"github.com/cwbudde/vocalsync/dsp/core"
	"github.com/cwbudde/vocalsync/dsp/frame"
	"github.com/cwbudde/vocalsync/dsp/spectrum"
	"github.com/cwbudde/vocalsync/dsp/window"
)

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	window window.Type
}

func defaultConfig() config {
	return config{window: window.TypeHann}
}

// WithWindow selects the analysis window. Default is Hann.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// Analyzer computes power spectrograms. It holds FFT work space and is not
// safe for concurrent use.
type Analyzer struct {
	size   int
	hop    int
	coeffs []float64
	fft    *fourier.FFT
	frames *buffer.Pool
	bins   []complex128
}

// New returns an Analyzer with FFT size and hop in samples.
func New(size, hop int, opts ...Option) (*Analyzer, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: fft size %d", core.ErrInvalidParameter, size)
	}
	if hop <= 0 {
		return nil, fmt.Errorf("%w: hop %d", core.ErrInvalidParameter, hop)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Analyzer{
		size:   size,
		hop:    hop,
		coeffs: window.Generate(cfg.window, size, window.WithPeriodic()),
		fft:    fourier.NewFFT(size),
		frames: buffer.NewPool(),
		bins:   make([]complex128, size/2+1),
	}, nil
}

// Size returns the FFT size.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of non-negative frequency bins, size/2+1.
func (a *Analyzer) Bins() int { return a.size/2 + 1 }

// Power returns the power spectrogram of signal, one row of Bins() values
// per frame. An empty signal yields no rows.
func (a *Analyzer) Power(signal []float64) [][]float64 {
	n := frame.Count(len(signal), a.hop)
	out := make([][]float64, n)

	buf := a.frames.Get(a.size)
	defer a.frames.Put(buf)
	seg := buf.Samples()

	for i := range out {
		frame.Centered(seg, signal, i, a.hop)
		_ = window.ApplyCoefficients(seg, seg, a.coeffs)
		a.fft.Coefficients(a.bins, seg)

		row := make([]float64, len(a.bins))
		spectrum.PowerInto(row, a.bins)
		out[i] = row
	}

	return out
}
