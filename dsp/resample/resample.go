package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality controls the anti-aliasing filter length and stopband.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityBest
)

// String returns the quality name.
func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBest:
		return "best"
	default:
		return "balanced"
	}
}

// ParseQuality maps a name back to a Quality. Unknown names select
// QualityBalanced and report false.
func ParseQuality(s string) (Quality, bool) {
	switch s {
	case "fast":
		return QualityFast, true
	case "balanced", "":
		return QualityBalanced, true
	case "best":
		return QualityBest, true
	default:
		return QualityBalanced, false
	}
}

type profile struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

func profileFor(q Quality) profile {
	switch q {
	case QualityFast:
		return profile{tapsPerPhase: 16, cutoffScale: 0.88, kaiserBeta: 5.0}
	case QualityBest:
		return profile{tapsPerPhase: 64, cutoffScale: 0.96, kaiserBeta: 9.0}
	default:
		return profile{tapsPerPhase: 32, cutoffScale: 0.92, kaiserBeta: 7.5}
	}
}

type config struct {
	quality Quality
	maxDen  int
}

// Option configures the resampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithMaxDenominator caps the denominator used to approximate the rate ratio.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func defaultConfig() config {
	return config{quality: QualityBalanced, maxDen: 4096}
}

// Resampler performs streaming rational sample-rate conversion.
type Resampler struct {
	up, down int
	delay    float64 // group delay in output samples

	phases [][]float64
	keep   int

	phase      int
	inputIndex int
	totalIn    int
	history    []float64
}

// NewRational creates a resampler for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	g := gcd(up, down)
	up /= g
	down /= g

	taps, err := designLowpass(up, down, profileFor(cfg.quality))
	if err != nil {
		return nil, err
	}

	phases := splitPhases(taps, up)

	return &Resampler{
		up:     up,
		down:   down,
		delay:  0.5 * float64(len(taps)-1) / float64(down),
		phases: phases,
		keep:   max(0, len(phases[0])-1),
	}, nil
}

// NewForRates creates a resampler by approximating outRate/inRate as a ratio.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if !(inRate > 0) || !(outRate > 0) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, ErrInvalidRate
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	up, down := approximateRatio(outRate/inRate, cfg.maxDen)

	return NewRational(up, down, opts...)
}

// Ratio returns the reduced up/down factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// Delay returns the filter's group delay in output samples.
func (r *Resampler) Delay() float64 {
	return r.delay
}

// Reset clears internal filter state.
func (r *Resampler) Reset() {
	r.phase = 0
	r.inputIndex = 0
	r.totalIn = 0
	r.history = r.history[:0]
}

// Process converts an input block, carrying filter state across calls.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	work := append(append(make([]float64, 0, len(r.history)+len(input)), r.history...), input...)
	base := r.totalIn - len(r.history)
	last := r.totalIn + len(input) - 1

	out := make([]float64, 0, len(input)*r.up/r.down+1)
	for r.inputIndex <= last {
		var y float64
		for k, c := range r.phases[r.phase] {
			idx := r.inputIndex - k
			if idx < base {
				break
			}
			y += c * work[idx-base]
		}
		out = append(out, y)

		r.phase += r.down
		r.inputIndex += r.phase / r.up
		r.phase %= r.up
	}

	r.totalIn += len(input)
	keep := min(r.keep, len(work))
	r.history = append(r.history[:0], work[len(work)-keep:]...)

	return out
}

// Convert resamples a whole signal from inRate to outRate. The result has
// round(len(input)*outRate/inRate) samples and is delay-compensated. Equal
// rates return a copy.
func Convert(input []float64, inRate, outRate int, opts ...Option) ([]float64, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, ErrInvalidRate
	}

	want := int(math.Round(float64(len(input)) * float64(outRate) / float64(inRate)))
	if inRate == outRate || len(input) == 0 {
		out := make([]float64, len(input))
		copy(out, input)
		return out, nil
	}

	r, err := NewRational(outRate, inRate, opts...)
	if err != nil {
		return nil, err
	}

	skip := int(math.Round(r.Delay()))
	flush := int(math.Ceil(float64(skip+1)*float64(r.down)/float64(r.up))) + 1

	y := r.Process(input)
	y = append(y, r.Process(make([]float64, flush))...)

	out := make([]float64, want)
	if skip < len(y) {
		copy(out, y[skip:])
	}

	return out, nil
}
