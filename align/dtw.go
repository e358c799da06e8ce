package align

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/vocalsync/dsp/core"
)

// Option configures Align.
type Option func(*config)

type config struct {
	distance Distance
	band     int
	workers  int
}

func defaultConfig() config {
	return config{
		distance: L1,
		workers:  runtime.GOMAXPROCS(0),
	}
}

// WithDistance sets the local cost function. Default is L1.
func WithDistance(d Distance) Option {
	return func(c *config) {
		if d != nil {
			c.distance = d
		}
	}
}

// WithBand restricts the search to cells within radius frames of the
// matrix diagonal. The radius is widened to at least the diagonal's slope
// so that a connected path always exists. Zero disables the band.
func WithBand(radius int) Option {
	return func(c *config) {
		if radius >= 0 {
			c.band = radius
		}
	}
}

// WithWorkers bounds the goroutines used for local costs.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// Result is an alignment and its accumulated cost.
type Result struct {
	Path Path
	Cost float64
}

// Align computes the lowest-cost monotonic alignment of ref onto target.
// Either sequence being empty fails with core.ErrInputTooShort.
func Align(ref, target [][]float64, opts ...Option) (Result, error) {
	n, m := len(ref), len(target)
	if n == 0 || m == 0 {
		return Result{}, fmt.Errorf("%w: %d reference and %d target frames", core.ErrInputTooShort, n, m)
	}
	if err := checkDims(ref, target); err != nil {
		return Result{}, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	b := newBand(n, m, cfg.band)
	d := localCosts(ref, target, b, cfg)
	accumulate(d, n, m)

	cost := d[n*m-1]
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return Result{}, fmt.Errorf("%w: total cost %v", ErrDegeneratePath, cost)
	}

	path := backtrack(d, n, m)
	if err := path.Validate(n, m); err != nil {
		return Result{}, err
	}

	return Result{Path: path, Cost: cost}, nil
}

func checkDims(ref, target [][]float64) error {
	dim := len(ref[0])
	for i, v := range ref {
		if len(v) != dim {
			return fmt.Errorf("%w: ref[%d] has %d, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}
	for j, v := range target {
		if len(v) != dim {
			return fmt.Errorf("%w: target[%d] has %d, want %d", ErrDimensionMismatch, j, len(v), dim)
		}
	}
	return nil
}

// band gives the inclusive column range searched in each row.
type band struct {
	m      int
	slope  float64
	radius float64
}

func newBand(n, m, radius int) band {
	b := band{m: m}
	if radius <= 0 || n < 2 {
		return b
	}
	b.slope = float64(m-1) / float64(n-1)
	b.radius = math.Max(float64(radius), math.Ceil(b.slope))
	return b
}

func (b band) cols(i int) (lo, hi int) {
	if b.radius == 0 {
		return 0, b.m - 1
	}
	c := float64(i) * b.slope
	lo = int(math.Floor(c - b.radius))
	hi = int(math.Ceil(c + b.radius))
	return core.Clamp(lo, 0, b.m-1), core.Clamp(hi, 0, b.m-1)
}

// localCosts returns the n×m row-major matrix of pairwise distances with
// +Inf outside the band.
func localCosts(ref, target [][]float64, b band, cfg config) []float64 {
	n, m := len(ref), len(target)
	d := make([]float64, n*m)

	var g errgroup.Group
	g.SetLimit(cfg.workers)
	for i := range n {
		g.Go(func() error {
			row := d[i*m : (i+1)*m]
			lo, hi := b.cols(i)
			for j := range row {
				if j < lo || j > hi {
					row[j] = math.Inf(1)
					continue
				}
				row[j] = cfg.distance(ref[i], target[j])
			}
			return nil
		})
	}
	// Workers never return an error; Wait only joins them.
	_ = g.Wait()

	return d
}

// accumulate turns local costs into cumulative costs in place.
func accumulate(d []float64, n, m int) {
	for j := 1; j < m; j++ {
		d[j] += d[j-1]
	}
	for i := 1; i < n; i++ {
		r, p := i*m, (i-1)*m
		d[r] += d[p]
		for j := 1; j < m; j++ {
			d[r+j] += min(d[p+j], d[r+j-1], d[p+j-1])
		}
	}
}

func backtrack(d []float64, n, m int) Path {
	i, j := n-1, m-1
	path := make(Path, 0, n+m-1)
	path = append(path, Pair{Ref: i, Target: j})

	for i > 0 || j > 0 {
		switch {
		case i == 0:
			j--
		case j == 0:
			i--
		default:
			diag := d[(i-1)*m+j-1]
			up := d[(i-1)*m+j]
			left := d[i*m+j-1]
			best := min(diag, up, left)
			switch {
			case diag == best:
				i, j = i-1, j-1
			case up == best && left == best:
				if i >= j {
					i--
				} else {
					j--
				}
			case up == best:
				i--
			default:
				j--
			}
		}
		path = append(path, Pair{Ref: i, Target: j})
	}

	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}
