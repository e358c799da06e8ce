// Package biquad implements second-order IIR sections in Direct Form II
// Transposed together with the RBJ cookbook high-pass design used to strip
// rumble below the vocal range before analysis.
package biquad
