package align

import "gonum.org/v1/gonum/floats"

// Distance is a symmetric non-negative cost between two equal-length
// feature vectors.
type Distance func(a, b []float64) float64

// L1 is the Manhattan distance.
func L1(a, b []float64) float64 {
	return floats.Distance(a, b, 1)
}

// Euclidean is the L2 distance.
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Cosine is 1 minus the cosine similarity. Two zero vectors are at
// distance 0, a zero vector and a non-zero one at distance 1.
func Cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	switch {
	case na == 0 && nb == 0:
		return 0
	case na == 0 || nb == 0:
		return 1
	}
	return 1 - floats.Dot(a, b)/(na*nb)
}
