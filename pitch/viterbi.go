package pitch

import "math"

// transition is a banded row-stochastic matrix between pitch bins with a
// triangular profile.
type transition struct {
	half int
	logp [][]float64 // logp[j][d+half]: log P(bin j -> bin j+d)
}

func newTransition(n, width int) transition {
	half := width / 2
	tr := transition{half: half, logp: make([][]float64, n)}
	for j := range n {
		row := make([]float64, 2*half+1)
		sum := 0.0
		for d := -half; d <= half; d++ {
			if k := j + d; k < 0 || k >= n {
				continue
			}
			w := float64(half + 1 - abs(d))
			row[d+half] = w
			sum += w
		}
		for i := range row {
			row[i] = math.Log(row[i] / sum)
		}
		tr.logp[j] = row
	}
	return tr
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// viterbi decodes the most likely state sequence. States 0..n-1 are voiced
// bins, n..2n-1 the matching unvoiced bins.
func viterbi(obs [][]float64, grid pitchGrid, cfg config) []int {
	n := grid.n
	frames := len(obs)

	maxSemitones := int(math.Round(cfg.maxTransition * 12 * float64(cfg.hop) / float64(cfg.sampleRate)))
	tr := newTransition(n, maxSemitones*cfg.binsPerSemi+1)

	lStay := math.Log(1 - cfg.switchProb)
	lSwitch := math.Log(cfg.switchProb)

	prev := make([]float64, 2*n)
	cur := make([]float64, 2*n)
	toVoiced := make([]float64, n)
	toUnvoiced := make([]float64, n)
	fromV := make([]int32, n)
	fromU := make([]int32, n)
	back := make([][]int32, frames)

	init := -math.Log(float64(2 * n))
	for s := range prev {
		prev[s] = init + logObs(obs[0][s])
	}

	for t := 1; t < frames; t++ {
		// Best source for bin j when entering the voiced or unvoiced half.
		for j := range n {
			v, u := prev[j], prev[n+j]
			if v+lStay >= u+lSwitch {
				toVoiced[j], fromV[j] = v+lStay, int32(j)
			} else {
				toVoiced[j], fromV[j] = u+lSwitch, int32(n+j)
			}
			if u+lStay >= v+lSwitch {
				toUnvoiced[j], fromU[j] = u+lStay, int32(n+j)
			} else {
				toUnvoiced[j], fromU[j] = v+lSwitch, int32(j)
			}
		}

		bp := make([]int32, 2*n)
		ob := obs[t]
		for k := range n {
			bestV, bestU := math.Inf(-1), math.Inf(-1)
			var argV, argU int32
			for j := max(0, k-tr.half); j <= min(n-1, k+tr.half); j++ {
				lp := tr.logp[j][k-j+tr.half]
				if s := toVoiced[j] + lp; s > bestV {
					bestV, argV = s, fromV[j]
				}
				if s := toUnvoiced[j] + lp; s > bestU {
					bestU, argU = s, fromU[j]
				}
			}
			cur[k] = bestV + logObs(ob[k])
			cur[n+k] = bestU + logObs(ob[n+k])
			bp[k], bp[n+k] = argV, argU
		}
		back[t] = bp
		prev, cur = cur, prev
	}

	states := make([]int, frames)
	best := 0
	for s := range prev {
		if prev[s] > prev[best] {
			best = s
		}
	}
	states[frames-1] = best
	for t := frames - 1; t > 0; t-- {
		states[t-1] = int(back[t][states[t]])
	}
	return states
}

// logObs floors zero observations so no state becomes unreachable.
func logObs(p float64) float64 {
	return math.Log(max(p, 1e-12))
}
