package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/vocalsync/track"
)

// Source is the external audio player whose position drives the reveal.
// Position must not decrease while playing.
type Source interface {
	Position() time.Duration
	Play()
	Pause()
	Seek(pos time.Duration) error
}

// Engine drives a Session from a Source on a fixed tick. All methods are
// safe for concurrent use; each tick runs under the same lock as Load and
// the transport calls, so no tick sees a half-loaded song.
type Engine struct {
	mu      sync.Mutex
	cfg     config
	session *Session
	source  Source
}

// NewEngine returns an Engine with an empty session.
func NewEngine(opts ...Option) *Engine {
	return &Engine{cfg: applyOptions(opts), session: NewSession(opts...)}
}

// Load installs new contours and the source that plays them. The previous
// source is paused and the new one is paused and rewound, so a reload of
// the playing source starts over from Idle at position 0.
func (e *Engine) Load(c track.Contours, src Source) error {
	if src == nil {
		return track.ErrMissingTrack
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.Load(c); err != nil {
		return err
	}
	if e.source != nil && e.source != src {
		e.source.Pause()
	}
	e.source = src
	src.Pause()
	if err := src.Seek(0); err != nil {
		return fmt.Errorf("playback: rewind on load: %w", err)
	}

	e.cfg.logger.Info("playback loaded", "frames", c.Live.Len(), "trim_offset", c.TrimOffset)
	return nil
}

// Start begins playback from Idle.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.Start(); err != nil {
		return err
	}
	e.source.Play()
	e.cfg.logger.Info("playback started")
	return nil
}

// Pause halts the source and the reveal.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.Pause(); err != nil {
		return err
	}
	e.source.Pause()
	e.cfg.logger.Info("playback paused", "position", e.session.position)
	return nil
}

// Resume continues after Pause.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.Resume(); err != nil {
		return err
	}
	e.source.Play()
	return nil
}

// Reset stops the source, rewinds it to zero and clears the revealed curve.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.Reset()
	e.cfg.logger.Info("playback reset")
	if e.source == nil {
		return nil
	}
	e.source.Pause()
	return e.source.Seek(0)
}

// Snapshot returns the current state without ticking.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Snapshot()
}

// Tick reads the source clock once and advances the session. The render
// callback, if any, is invoked after the lock is released.
func (e *Engine) Tick() Snapshot {
	e.mu.Lock()
	var snap Snapshot
	if e.source == nil {
		snap = e.session.Snapshot()
	} else {
		snap = Tick(e.session, e.source.Position().Milliseconds())
	}
	e.mu.Unlock()

	if e.cfg.render != nil {
		e.cfg.render(snap)
	}
	return snap
}

// Run ticks every period until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Tick()
		}
	}
}
