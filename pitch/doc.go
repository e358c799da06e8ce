// Package pitch tracks the fundamental frequency of a monophonic voice with
// probabilistic YIN (pYIN).
//
// Every centred frame yields a cumulative mean normalized difference
// function. Its troughs become pitch candidates, weighted by a Beta prior
// over YIN thresholds and a Boltzmann prior favouring earlier troughs. A
// hidden Markov model over fine pitch bins, each either voiced or
// unvoiced, is then decoded with Viterbi so that the contour moves smoothly
// and voicing switches are rare.
//
// Unvoiced frames carry NaN in [Contour.F0]; every voiced value lies in the
// configured [fmin, fmax] range.
package pitch
