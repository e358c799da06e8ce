// Package audio holds the mono Waveform type shared by every stage and reads
// and writes it as WAV.
//
// Decoding mixes all channels down to mono and converts the sample rate to
// the processing rate requested by the caller, so downstream stages only
// ever see one rate per waveform. Encoding writes 16-bit PCM.
package audio
