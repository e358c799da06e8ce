// Package warp reshapes a reference waveform onto a target's timeline using
// an alignment path.
//
// Each path pair becomes an anchor (target time, reference time). A
// piecewise-linear map through the anchors, extended linearly past both
// ends, sends every output time on the target grid back to a reference time
// where the reference waveform is read. The output therefore lasts as long
// as the target's last anchor, whatever the reference length.
package warp
