// Package playout plays a waveform through the ebiten audio device and
// exposes its position as the playback clock.
package playout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/cwbudde/vocalsync/audio"
	"github.com/cwbudde/vocalsync/dsp/core"
	"github.com/cwbudde/vocalsync/playback"
)

// SampleRate is the rate of the shared device context.
const SampleRate = 44100

var _ playback.Source = (*Player)(nil)

var (
	contextOnce sync.Once
	deviceCtx   *ebitaudio.Context
)

func sharedContext() *ebitaudio.Context {
	contextOnce.Do(func() {
		deviceCtx = ebitaudio.NewContext(SampleRate)
	})
	return deviceCtx
}

// Player plays one file from memory.
type Player struct {
	player   *ebitaudio.Player
	duration time.Duration
}

// Open decodes the WAV file at path and prepares it for playback.
func Open(path string) (*Player, error) {
	w, err := audio.Load(path, SampleRate)
	if err != nil {
		return nil, err
	}
	return New(w)
}

// New prepares w, which must already be at SampleRate.
func New(w audio.Waveform) (*Player, error) {
	if w.SampleRate != SampleRate {
		return nil, fmt.Errorf("playout: waveform at %d Hz, device at %d Hz", w.SampleRate, SampleRate)
	}

	pl, err := sharedContext().NewPlayerF32(bytes.NewReader(encodeStereoF32(w.Samples)))
	if err != nil {
		return nil, err
	}
	return &Player{
		player:   pl,
		duration: time.Duration(w.Duration() * float64(time.Second)),
	}, nil
}

// encodeStereoF32 duplicates mono samples into interleaved little-endian
// float32 stereo frames, the layout NewPlayerF32 reads.
func encodeStereoF32(samples []float64) []byte {
	out := make([]byte, len(samples)*8)
	for i, x := range samples {
		bits := math.Float32bits(float32(core.Clamp(core.SanitizeValue(x), -1, 1)))
		binary.LittleEndian.PutUint32(out[i*8:], bits)
		binary.LittleEndian.PutUint32(out[i*8+4:], bits)
	}
	return out
}

func (p *Player) Play()           { p.player.Play() }
func (p *Player) Pause()          { p.player.Pause() }
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

// Position is what the listener hears now.
func (p *Player) Position() time.Duration { return p.player.Position() }

// Seek moves the play head.
func (p *Player) Seek(pos time.Duration) error { return p.player.SetPosition(pos) }

// Duration is the length of the loaded audio.
func (p *Player) Duration() time.Duration { return p.duration }

// Close stops playback and releases the device player.
func (p *Player) Close() error {
	p.player.Pause()
	return p.player.Close()
}
