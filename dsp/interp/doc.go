// Package interp provides the interpolation primitives used by time warping:
// piecewise-linear maps over arbitrary monotonic knots and fractional-index
// reads from uniformly sampled signals.
//
//   - [Piecewise]:  monotonic knot map with linear or clamped extrapolation
//   - [Linear2]:    2-point linear interpolation
//   - [Hermite4]:   4-point cubic Hermite
//   - [Sample]:     read a signal at a fractional index using a [Mode]
package interp
