// Package prep trims leading and trailing silence from isolated vocals and
// normalises them to a common RMS level. The amount of silence removed from
// the start of each track is recorded in the song metadata so playback can
// line the trimmed contours up with the untrimmed recording.
package prep
