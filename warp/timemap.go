package warp

import (
	"fmt"

	"github.com/cwbudde/vocalsync/align"
	"github.com/cwbudde/vocalsync/dsp/core"
	"github.com/cwbudde/vocalsync/dsp/frame"
	"github.com/cwbudde/vocalsync/dsp/interp"
)

// TimeMap converts target time to reference time.
type TimeMap struct {
	target []float64
	ref    []float64
	fn     *interp.Piecewise
}

// NewTimeMap builds the map from a path on a hop grid. Pairs sharing a
// target frame collapse into one anchor at their mean reference time.
func NewTimeMap(path align.Path, hop, sampleRate int) (*TimeMap, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty alignment path", core.ErrInputTooShort)
	}
	if hop <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: hop %d, sample rate %d", core.ErrInvalidParameter, hop, sampleRate)
	}

	var target, ref []float64
	for k := 0; k < len(path); {
		j := path[k].Target
		sum, cnt := 0.0, 0
		for ; k < len(path) && path[k].Target == j; k++ {
			sum += frame.Time(path[k].Ref, hop, sampleRate)
			cnt++
		}
		tt := frame.Time(j, hop, sampleRate)
		if n := len(target); n > 0 && tt <= target[n-1] {
			return nil, fmt.Errorf("%w: target frame %d out of order", align.ErrDegeneratePath, j)
		}
		target = append(target, tt)
		ref = append(ref, sum/float64(cnt))
	}

	fn, err := interp.NewPiecewise(target, ref, interp.ExtrapolateLinear)
	if err != nil {
		return nil, err
	}
	return &TimeMap{target: target, ref: ref, fn: fn}, nil
}

// RefTime maps a target time to a reference time.
func (m *TimeMap) RefTime(targetTime float64) float64 {
	return m.fn.At(targetTime)
}

// Duration is the time of the last target anchor.
func (m *TimeMap) Duration() float64 {
	return m.target[len(m.target)-1]
}

// Anchors returns the number of distinct target anchors.
func (m *TimeMap) Anchors() int {
	return len(m.target)
}
