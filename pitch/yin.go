package pitch

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const tiny = 1e-300

// yinFrame computes the cumulative mean normalized difference of one frame
// for lags 0..maxLag, with an integration window of w samples.
type yinFrame struct {
	n, w   int
	fft    *fourier.FFT
	head   []float64
	specX  []complex128
	specW  []complex128
	corr   []float64
	energy []float64
	diff   []float64
}

func newYinFrame(n, w int) *yinFrame {
	return &yinFrame{
		n:      n,
		w:      w,
		fft:    fourier.NewFFT(n),
		head:   make([]float64, n),
		specX:  make([]complex128, n/2+1),
		specW:  make([]complex128, n/2+1),
		corr:   make([]float64, n),
		energy: make([]float64, n+1),
	}
}

// cmnd fills dst[0..maxLag] with the normalized difference function of x,
// which must hold n samples. Lags reach at most n-w.
func (y *yinFrame) cmnd(dst, x []float64) {
	maxLag := len(dst) - 1

	// Cross-correlation of the first w samples against the whole frame:
	// r(t) = sum_{j<w} x[j]*x[j+t]. j+t never exceeds n-1, so a size-n
	// circular correlation has no wrap-around.
	copy(y.head, x[:y.w])
	clear(y.head[y.w:])
	y.fft.Coefficients(y.specX, x)
	y.fft.Coefficients(y.specW, y.head)
	for k := range y.specX {
		y.specX[k] *= complex(real(y.specW[k]), -imag(y.specW[k]))
	}
	y.fft.Sequence(y.corr, y.specX)
	scale := 1 / float64(y.n)

	y.energy[0] = 0
	for i, v := range x {
		y.energy[i+1] = y.energy[i] + v*v
	}
	e0 := y.energy[y.w]

	dst[0] = 1
	running := 0.0
	for t := 1; t <= maxLag; t++ {
		et := y.energy[t+y.w] - y.energy[t]
		r := y.corr[t] * scale
		d := e0 + et - 2*r
		if d < 1e-12 {
			d = 0
		}
		running += d
		dst[t] = d * float64(t) / (running + tiny)
	}
}

// parabolicShift returns the sub-sample offset of the vertex of the parabola
// through x[i-1], x[i], x[i+1]. Edges and degenerate fits return 0.
func parabolicShift(x []float64, i int) float64 {
	if i <= 0 || i >= len(x)-1 {
		return 0
	}
	a := x[i+1] + x[i-1] - 2*x[i]
	b := 0.5 * (x[i+1] - x[i-1])
	if math.Abs(b) >= math.Abs(a) {
		return 0
	}
	return -b / a
}

// troughs returns the local minima of x in [lo, hi]. The first lag counts
// when it is below its right neighbour, the last when below its left one.
func troughs(x []float64, lo, hi int) []int {
	var out []int
	for t := lo; t <= hi; t++ {
		var ok bool
		switch {
		case t == lo:
			ok = t < hi && x[t] < x[t+1]
		case t == hi:
			ok = x[t] < x[t-1]
		default:
			ok = x[t] < x[t-1] && x[t] <= x[t+1]
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}
