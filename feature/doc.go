// Package feature turns waveforms into chroma sequences for alignment.
//
// A chroma vector folds the power spectrum of one frame onto the twelve
// pitch classes (C, C#, ... B), so two performances of the same melody look
// alike even when their timbre, level or octave differ. Frames follow the
// centred hop grid of package frame: vector i describes time
// i*hop/sampleRate.
package feature
