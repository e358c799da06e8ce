// Package track describes the on-disk layout of a song folder and the
// artefacts exchanged between pipeline stages: per-song metadata in
// data.txt, isolated and trimmed vocal WAV files, the warped studio
// vocals and the pitch contours stored as NumPy .npy arrays.
package track
