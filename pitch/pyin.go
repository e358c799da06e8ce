package pitch

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/vocalsync/dsp/core"
	"github.com/cwbudde/vocalsync/dsp/frame"
)

// Option configures Track.
type Option func(*config)

type config struct {
	hop           int
	frameLength   int
	fmin, fmax    float64
	binsPerSemi   int
	thresholds    int
	betaA, betaB  float64
	boltzmann     float64
	noTroughProb  float64
	switchProb    float64
	maxTransition float64 // octaves per second
	sampleRate    int
	workers       int
	logger        *slog.Logger
}

func defaultConfig() config {
	return config{
		hop:           256,
		frameLength:   1024,
		fmin:          80,
		fmax:          1000,
		binsPerSemi:   10,
		thresholds:    100,
		betaA:         2,
		betaB:         18,
		boltzmann:     2,
		noTroughProb:  0.01,
		switchProb:    0.01,
		maxTransition: 35.92,
		workers:       runtime.GOMAXPROCS(0),
		logger:        slog.Default(),
	}
}

// WithHopLength sets the hop in samples. Default 256.
func WithHopLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.hop = n
		}
	}
}

// WithFrameLength sets the analysis frame in samples. Default 1024.
func WithFrameLength(n int) Option {
	return func(c *config) {
		if n >= 4 {
			c.frameLength = n
		}
	}
}

// WithRange sets the search range in Hz. Default 80 to 1000.
func WithRange(fmin, fmax float64) Option {
	return func(c *config) {
		if fmin > 0 && fmax > fmin {
			c.fmin, c.fmax = fmin, fmax
		}
	}
}

// WithResolution sets the pitch bins per semitone. Default 10.
func WithResolution(binsPerSemitone int) Option {
	return func(c *config) {
		if binsPerSemitone > 0 {
			c.binsPerSemi = binsPerSemitone
		}
	}
}

// WithSwitchProbability sets the chance of a voicing change between frames.
func WithSwitchProbability(p float64) Option {
	return func(c *config) {
		if p > 0 && p < 1 {
			c.switchProb = p
		}
	}
}

// WithWorkers bounds the goroutines computing frame observations.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger for decode statistics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Track estimates the pitch contour of samples. A signal shorter than one
// hop-grid frame fails with core.ErrInputTooShort.
func Track(samples []float64, sampleRate int, opts ...Option) (Contour, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if sampleRate <= 0 {
		return Contour{}, fmt.Errorf("%w: sample rate %d", core.ErrInvalidParameter, sampleRate)
	}
	cfg.sampleRate = sampleRate

	nFrames := frame.Count(len(samples), cfg.hop)
	if nFrames == 0 {
		return Contour{}, fmt.Errorf("%w: %d samples", core.ErrInputTooShort, len(samples))
	}

	sr := float64(sampleRate)
	w := cfg.frameLength / 2
	minLag := int(math.Floor(sr / cfg.fmax))
	maxLag := min(int(math.Ceil(sr/cfg.fmin)), cfg.frameLength-w-1)
	if minLag < 1 || minLag >= maxLag {
		return Contour{}, fmt.Errorf("%w: range %.0f-%.0f Hz does not fit a %d-sample frame at %d Hz",
			core.ErrInvalidParameter, cfg.fmin, cfg.fmax, cfg.frameLength, sampleRate)
	}

	grid := newPitchGrid(cfg)
	prior := newThresholdPrior(cfg)

	obs := make([][]float64, nFrames)
	voicedProb := make([]float64, nFrames)

	var g errgroup.Group
	g.SetLimit(cfg.workers)
	chunk := max(1, (nFrames+cfg.workers-1)/cfg.workers)
	for start := 0; start < nFrames; start += chunk {
		end := min(start+chunk, nFrames)
		g.Go(func() error {
			yf := newYinFrame(cfg.frameLength, w)
			seg := make([]float64, cfg.frameLength)
			yin := make([]float64, maxLag+1)
			for i := start; i < end; i++ {
				frame.Centered(seg, samples, i, cfg.hop)
				yf.cmnd(yin, seg)
				obs[i], voicedProb[i] = observe(yin, minLag, maxLag, sr, grid, prior, cfg)
			}
			return nil
		})
	}
	// Workers never return an error; Wait only joins them.
	_ = g.Wait()

	states := viterbi(obs, grid, cfg)

	c := Contour{
		Times:      frame.Times(nFrames, cfg.hop, sampleRate),
		F0:         make([]float64, nFrames),
		Voiced:     make([]bool, nFrames),
		VoicedProb: voicedProb,
	}
	for i, s := range states {
		if s < grid.n {
			c.F0[i] = grid.freqs[s]
			c.Voiced[i] = true
		} else {
			c.F0[i] = math.NaN()
		}
	}

	cfg.logger.Debug("pitch tracked", "frames", nFrames, "voiced", c.VoicedCount())
	return c, nil
}

// pitchGrid holds the log-spaced candidate frequencies.
type pitchGrid struct {
	n     int
	freqs []float64
	fmin  float64
	perOc float64
}

func newPitchGrid(cfg config) pitchGrid {
	perOc := float64(12 * cfg.binsPerSemi)
	n := int(perOc*math.Log2(cfg.fmax/cfg.fmin)) + 1
	freqs := make([]float64, n)
	for k := range freqs {
		freqs[k] = cfg.fmin * math.Exp2(float64(k)/perOc)
	}
	return pitchGrid{n: n, freqs: freqs, fmin: cfg.fmin, perOc: perOc}
}

func (g pitchGrid) bin(f float64) int {
	return core.Clamp(int(math.Round(g.perOc*math.Log2(f/g.fmin))), 0, g.n-1)
}

// thresholdPrior is the probability mass of each YIN threshold under the
// Beta prior, with the thresholds themselves.
type thresholdPrior struct {
	thresholds []float64
	mass       []float64
}

func newThresholdPrior(cfg config) thresholdPrior {
	beta := distuv.Beta{Alpha: cfg.betaA, Beta: cfg.betaB}
	p := thresholdPrior{
		thresholds: make([]float64, cfg.thresholds),
		mass:       make([]float64, cfg.thresholds),
	}
	prev := 0.0
	for k := range p.thresholds {
		th := float64(k+1) / float64(cfg.thresholds)
		cdf := beta.CDF(th)
		p.thresholds[k] = th
		p.mass[k] = cdf - prev
		prev = cdf
	}
	return p
}

// boltzmannPMF is the truncated geometric prior over trough rank k of n.
func boltzmannPMF(k, n int, lambda float64) float64 {
	return (1 - math.Exp(-lambda)) * math.Exp(-lambda*float64(k)) / (1 - math.Exp(-lambda*float64(n)))
}

const maxVoicedMass = 0.99

// observe turns one normalized difference function into observation
// probabilities over 2*grid.n states (voiced bins, then unvoiced bins).
func observe(yin []float64, minLag, maxLag int, sr float64, grid pitchGrid, prior thresholdPrior, cfg config) ([]float64, float64) {
	obs := make([]float64, 2*grid.n)

	lags := troughs(yin, minLag, maxLag)
	if len(lags) > 0 {
		probs := make([]float64, len(lags))
		for k, th := range prior.thresholds {
			below := 0
			for _, t := range lags {
				if yin[t] < th {
					below++
				}
			}
			rank := 0
			for i, t := range lags {
				if yin[t] < th {
					probs[i] += boltzmannPMF(rank, below, cfg.boltzmann) * prior.mass[k]
					rank++
				}
			}
		}

		// Mass of thresholds under which no trough qualifies goes to the
		// deepest trough, scaled down.
		best := 0
		for i, t := range lags {
			if yin[t] < yin[lags[best]] {
				best = i
			}
		}
		for k, th := range prior.thresholds {
			if yin[lags[best]] < th {
				break
			}
			probs[best] += cfg.noTroughProb * prior.mass[k]
		}

		for i, t := range lags {
			period := float64(t) + parabolicShift(yin, t)
			if period <= 0 {
				continue
			}
			obs[grid.bin(sr/period)] += probs[i]
		}
	}

	voiced := 0.0
	for _, p := range obs[:grid.n] {
		voiced += p
	}
	// Some unvoiced mass always remains so the decoder can leave a voiced
	// run, e.g. across an octave leap wider than the transition band.
	if voiced > maxVoicedMass {
		floats.Scale(maxVoicedMass/voiced, obs[:grid.n])
		voiced = maxVoicedMass
	}

	fill := (1 - voiced) / float64(grid.n)
	for k := grid.n; k < 2*grid.n; k++ {
		obs[k] = fill
	}

	return obs, voiced
}
