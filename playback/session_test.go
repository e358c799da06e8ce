package playback

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/vocalsync/track"
)

func contours(times []float64, trim float64) track.Contours {
	f0 := make([]float64, len(times))
	for i := range f0 {
		f0[i] = 200 + float64(i)
	}
	return track.Contours{
		Live:       track.Curve{Times: times, F0: f0},
		Studio:     track.Curve{Times: times, F0: f0},
		TrimOffset: trim,
	}
}

func uniformTimes(n int, step float64) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) * step
	}
	return t
}

func playingSession(t *testing.T, c track.Contours, opts ...Option) *Session {
	t.Helper()
	s := NewSession(opts...)
	require.NoError(t, s.Load(c))
	require.NoError(t, s.Start())
	return s
}

func TestTickRevealSequence(t *testing.T) {
	s := playingSession(t, contours([]float64{0, 0.1, 0.2, 0.3}, 0))

	var got []int
	for _, ms := range []int64{0, 150, 350} {
		got = append(got, Tick(s, ms).Cursor)
	}
	assert.Equal(t, []int{1, 2, 4}, got)
}

func TestTickAppliesTrimOffset(t *testing.T) {
	s := playingSession(t, contours([]float64{0, 0.1, 0.2, 0.3}, 1.0))

	snap := Tick(s, 1150)
	assert.InDelta(t, 1.15, snap.Position, 1e-12)
	assert.InDelta(t, 0.15, snap.Marker, 1e-12)
	assert.Equal(t, 2, snap.Cursor)

	// Before the trimmed region the marker is negative and one frame shows.
	s.Reset()
	require.NoError(t, s.Start())
	snap = Tick(s, 200)
	assert.Less(t, snap.Marker, 0.0)
	assert.Equal(t, 1, snap.Cursor)
}

func TestTickCursorNeverRetracts(t *testing.T) {
	s := playingSession(t, contours(uniformTimes(100, 0.1), 0))

	prev := 0
	for _, ms := range []int64{0, 500, 1200, 900, 1300, 1300, 100, 9999, 20000} {
		snap := Tick(s, ms)
		assert.GreaterOrEqual(t, snap.Cursor, prev)
		assert.LessOrEqual(t, snap.Cursor, 100)
		assert.Equal(t, snap.Cursor, snap.Live.Len())
		prev = snap.Cursor
	}
	assert.Equal(t, 100, prev)
}

func TestTickGrewOnlyWhenCursorMoves(t *testing.T) {
	s := playingSession(t, contours([]float64{0, 0.1, 0.2, 0.3}, 0))

	assert.True(t, Tick(s, 0).Grew)
	assert.False(t, Tick(s, 0).Grew)
	assert.True(t, Tick(s, 150).Grew)
	assert.False(t, Tick(s, 120).Grew)
}

func TestTickWindowScroll(t *testing.T) {
	s := playingSession(t, contours(uniformTimes(300, 0.1), 0))

	snap := Tick(s, 4000)
	assert.Equal(t, Window{Left: 0, Right: 5}, snap.Window)

	snap = Tick(s, 5000)
	assert.Equal(t, Window{Left: 0, Right: 5}, snap.Window, "marker at exactly the lead does not scroll")

	snap = Tick(s, 7000)
	assert.InDelta(t, 2.0, snap.Window.Left, 1e-12)
	assert.InDelta(t, 12.0, snap.Window.Right, 1e-12)
	assert.InDelta(t, 10.0, snap.Window.Width(), 1e-12)

	snap = Tick(s, 12500)
	assert.InDelta(t, 7.5, snap.Window.Left, 1e-12)
	assert.InDelta(t, snap.Marker-5, snap.Window.Left, 1e-12)
}

func TestTickCustomScroll(t *testing.T) {
	s := playingSession(t, contours(uniformTimes(300, 0.1), 0),
		WithInitialWidth(2), WithScroll(1, 4))

	assert.Equal(t, Window{Left: 0, Right: 2}, s.Snapshot().Window)
	snap := Tick(s, 3000)
	assert.InDelta(t, 2.0, snap.Window.Left, 1e-12)
	assert.InDelta(t, 6.0, snap.Window.Right, 1e-12)
}

func TestTickOutsidePlayingIsNoop(t *testing.T) {
	s := NewSession()
	snap := Tick(s, 1000)
	assert.False(t, snap.Loaded)
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, Idle, snap.State)

	require.NoError(t, s.Load(contours([]float64{0, 0.1}, 0)))
	assert.Equal(t, 0, Tick(s, 1000).Cursor, "idle session does not reveal")

	require.NoError(t, s.Start())
	Tick(s, 50)
	require.NoError(t, s.Pause())
	snap = Tick(s, 1000)
	assert.Equal(t, Paused, snap.State)
	assert.Equal(t, 1, snap.Cursor)
	assert.InDelta(t, 0.05, snap.Marker, 1e-12)
}

func TestResetRetractsCursor(t *testing.T) {
	s := playingSession(t, contours(uniformTimes(200, 0.1), 0))
	Tick(s, 9000)

	s.Reset()
	snap := s.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, 0, snap.Live.Len())
	assert.Equal(t, Window{Left: 0, Right: 5}, snap.Window)
	assert.True(t, snap.Loaded)
}

func TestTransitions(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.Start(), track.ErrMissingTrack)
	assert.Equal(t, Idle, s.State())

	require.NoError(t, s.Load(contours([]float64{0}, 0)))
	assert.ErrorIs(t, s.Pause(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Resume(), ErrInvalidTransition)

	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Start(), ErrInvalidTransition)
	require.NoError(t, s.Pause())
	assert.Equal(t, Paused, s.State())
	require.NoError(t, s.Resume())
	assert.Equal(t, Playing, s.State())
}

func TestLoadRejectsEmptyContour(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Load(contours([]float64{0, 0.1}, 0.5)))

	err := s.Load(track.Contours{})
	assert.ErrorIs(t, err, track.ErrMissingTrack)

	bad := contours([]float64{0, 0.1}, 0)
	bad.Live.F0 = bad.Live.F0[:1]
	assert.ErrorIs(t, s.Load(bad), track.ErrMissingTrack)

	assert.Equal(t, 2, s.contours.Live.Len(), "failed load keeps previous contours")
}

func TestLoadResetsState(t *testing.T) {
	s := playingSession(t, contours(uniformTimes(50, 0.1), 0))
	Tick(s, 3000)

	require.NoError(t, s.Load(contours([]float64{0, 1}, 0)))
	snap := s.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, 2, snap.Studio.Len())
}

func TestSnapshotVisible(t *testing.T) {
	s := playingSession(t, contours(uniformTimes(200, 0.1), 0))
	snap := Tick(s, 8000)

	vis := snap.Visible()
	require.NotZero(t, vis.Len())
	assert.GreaterOrEqual(t, vis.Times[0], snap.Window.Left-1e-9)
	assert.LessOrEqual(t, vis.Times[vis.Len()-1], snap.Marker+1e-9)
	assert.Equal(t, snap.Live.Times[snap.Live.Len()-1], vis.Times[vis.Len()-1])
}

func TestSnapshotCarriesDisplayRange(t *testing.T) {
	snap := NewSession(WithPitchRange(50, 800)).Snapshot()
	assert.Equal(t, 50.0, snap.PitchMin)
	assert.Equal(t, 800.0, snap.PitchMax)

	snap = NewSession(WithPitchRange(800, 50)).Snapshot()
	assert.Equal(t, 100.0, snap.PitchMin)
	assert.False(t, math.IsNaN(snap.PitchMax))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "playing", Playing.String())
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "State(7)", State(7).String())
}
