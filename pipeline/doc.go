// Package pipeline runs the batch stages that turn a song folder with a
// live and a studio recording into aligned pitch contours:
//
//	separate  isolate the vocal stems (optional)
//	prep      trim silence, normalise, record trim offsets
//	sync      chroma features, DTW alignment, warp studio onto live
//	pitch     pYIN contours of the live and the warped studio vocals
//
// Stages run to completion. The context is checked between stages only.
// Any failure is returned as a *StageError naming the stage and how long it
// ran.
package pipeline
