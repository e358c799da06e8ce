// Package buffer provides a reusable float64 buffer and a pool of them for
// per-frame scratch space in the analysis stages.
package buffer
