package playback

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/vocalsync/track"
)

// ErrInvalidTransition reports a transport call not allowed in the
// current state.
var ErrInvalidTransition = errors.New("playback: invalid state transition")

// State is the transport state of a Session.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Window is the visible time range in seconds.
type Window struct {
	Left, Right float64
}

// Width returns Right-Left.
func (w Window) Width() float64 { return w.Right - w.Left }

// Snapshot is everything a renderer needs after one tick.
//
// Live is the revealed prefix of the live contour and Studio the full
// reference contour. Both alias the loaded arrays and must not be modified.
type Snapshot struct {
	State    State
	Loaded   bool
	Position float64 // external clock, seconds
	Marker   float64 // Position minus the trim offset
	Cursor   int     // number of revealed live frames
	Grew     bool    // the cursor advanced on this tick
	Window   Window
	Live     track.Curve
	Studio   track.Curve
	PitchMin float64
	PitchMax float64
}

// Visible returns the revealed live frames whose time lies inside Window.
func (s Snapshot) Visible() track.Curve {
	lo := sort.SearchFloat64s(s.Live.Times, s.Window.Left)
	hi := sort.Search(len(s.Live.Times), func(i int) bool { return s.Live.Times[i] > s.Window.Right })
	if lo >= hi {
		return track.Curve{}
	}
	return track.Curve{Times: s.Live.Times[lo:hi], F0: s.Live.F0[lo:hi]}
}

// Session is the playback state of one loaded song. It is not safe for
// concurrent use; Engine provides the locking.
type Session struct {
	cfg      config
	contours track.Contours
	loaded   bool

	state    State
	position float64
	marker   float64
	cursor   int
	window   Window
}

// NewSession returns an empty Idle session.
func NewSession(opts ...Option) *Session {
	s := &Session{cfg: applyOptions(opts)}
	s.Reset()
	return s
}

// Load replaces the contours and trim offset and resets the session.
// A live contour without frames or with mismatched arrays is rejected
// with track.ErrMissingTrack and leaves the session unchanged.
func (s *Session) Load(c track.Contours) error {
	if c.Live.Len() == 0 {
		return fmt.Errorf("%w: live contour has no frames", track.ErrMissingTrack)
	}
	if len(c.Live.F0) != len(c.Live.Times) || len(c.Studio.F0) != len(c.Studio.Times) {
		return fmt.Errorf("%w: contour arrays differ in length", track.ErrMissingTrack)
	}

	s.contours = c
	s.loaded = true
	s.Reset()
	return nil
}

// Loaded reports whether a contour is loaded.
func (s *Session) Loaded() bool { return s.loaded }

// State returns the transport state.
func (s *Session) State() State { return s.state }

// Start moves Idle to Playing. It needs a loaded contour.
func (s *Session) Start() error {
	if !s.loaded {
		return track.ErrMissingTrack
	}
	if s.state != Idle {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, s.state)
	}
	s.state = Playing
	return nil
}

// Pause moves Playing to Paused.
func (s *Session) Pause() error {
	if s.state != Playing {
		return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, s.state)
	}
	s.state = Paused
	return nil
}

// Resume moves Paused to Playing.
func (s *Session) Resume() error {
	if s.state != Paused {
		return fmt.Errorf("%w: resume while %s", ErrInvalidTransition, s.state)
	}
	s.state = Playing
	return nil
}

// Reset returns to Idle with nothing revealed and the initial window.
func (s *Session) Reset() {
	s.state = Idle
	s.position = 0
	s.marker = 0
	s.cursor = 0
	s.window = Window{Left: 0, Right: s.cfg.initialWidth}
}

// Snapshot describes the session without advancing it.
func (s *Session) Snapshot() Snapshot {
	return s.snapshot(false)
}

func (s *Session) snapshot(grew bool) Snapshot {
	live := s.contours.Live
	return Snapshot{
		State:    s.state,
		Loaded:   s.loaded,
		Position: s.position,
		Marker:   s.marker,
		Cursor:   s.cursor,
		Grew:     grew,
		Window:   s.window,
		Live:     track.Curve{Times: live.Times[:s.cursor], F0: live.F0[:s.cursor]},
		Studio:   s.contours.Studio,
		PitchMin: s.cfg.pitchMin,
		PitchMax: s.cfg.pitchMax,
	}
}

// Tick advances s to the external clock position clockMillis and returns
// the resulting snapshot. Outside Playing, or without a contour, the
// session is left untouched.
//
// The cursor becomes the insertion index of the adjusted position in the
// live time axis, clamped to [1, frames], and never moves backwards. Once
// the marker is more than the scroll lead past the window's left edge the
// window trails it at a fixed span.
func Tick(s *Session, clockMillis int64) Snapshot {
	if s.state != Playing || !s.loaded {
		return s.snapshot(false)
	}

	s.position = float64(clockMillis) / 1000
	s.marker = s.position - s.contours.TrimOffset

	times := s.contours.Live.Times
	idx := min(max(sort.SearchFloat64s(times, s.marker), 1), len(times))

	grew := idx > s.cursor
	if grew {
		s.cursor = idx
	}

	if s.marker > s.window.Left+s.cfg.lead {
		left := s.marker - s.cfg.lead
		s.window = Window{Left: left, Right: left + s.cfg.span}
	}

	return s.snapshot(grew)
}
