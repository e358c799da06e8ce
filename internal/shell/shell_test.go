package shell

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/vocalsync/playback"
	"github.com/cwbudde/vocalsync/track"
)

type clock struct {
	pos     time.Duration
	playing bool
	closed  bool
}

func (c *clock) Position() time.Duration      { return c.pos }
func (c *clock) Play()                        { c.playing = true }
func (c *clock) Pause()                       { c.playing = false }
func (c *clock) Seek(pos time.Duration) error { c.pos = pos; return nil }
func (c *clock) Close() error                 { c.closed = true; return nil }

type currentRecorder struct{ name string }

func (c *currentRecorder) SetCurrent(_ context.Context, name string) error {
	c.name = name
	return nil
}

func fixture(t *testing.T) (track.Library, *clock) {
	t.Helper()
	lib := track.Library{Root: t.TempDir()}
	l := lib.Song("halo")
	require.NoError(t, l.Ensure())
	require.NoError(t, track.WriteMetadata(l.Metadata(), track.Metadata{SongName: "halo", LiveStart: 0.5}))

	times := make([]float64, 100)
	f0 := make([]float64, 100)
	for i := range times {
		times[i] = float64(i) * 0.1
		f0[i] = 220
	}
	f0[3] = math.NaN()
	c := track.Curve{Times: times, F0: f0}
	require.NoError(t, track.SaveCurves(l, c, c))
	return lib, &clock{}
}

func newShell(t *testing.T) (*Shell, *clock, *bytes.Buffer, *playback.Engine) {
	lib, src := fixture(t)
	var out bytes.Buffer
	engine := playback.NewEngine()
	sh := New(lib, engine,
		WithOutput(&out),
		WithOpener(func(track.Layout) (playback.Source, error) { return src, nil }))
	return sh, src, &out, engine
}

func TestLoadPlayStatusReset(t *testing.T) {
	ctx := context.Background()
	sh, src, out, engine := newShell(t)
	cur := &currentRecorder{}
	sh.current = cur

	_, err := sh.Execute(ctx, "load halo")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "loaded halo: 100 live frames, trim offset 0.500s")
	assert.Equal(t, "halo", cur.name)

	_, err = sh.Execute(ctx, "play")
	require.NoError(t, err)
	assert.True(t, src.playing)

	src.pos = 2500 * time.Millisecond
	snap := engine.Tick()
	assert.Equal(t, 20, snap.Cursor)

	out.Reset()
	_, err = sh.Execute(ctx, "status")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "song=halo state=playing position=2.50s marker=2.00s revealed=20")
	assert.Contains(t, out.String(), "▃▃", "220 Hz sits in the third level")

	_, err = sh.Execute(ctx, "pause")
	require.NoError(t, err)
	assert.False(t, src.playing)
	_, err = sh.Execute(ctx, "play")
	require.NoError(t, err)
	assert.Equal(t, playback.Playing, engine.Snapshot().State)

	_, err = sh.Execute(ctx, "reset")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), src.pos)
	assert.Equal(t, 0, engine.Snapshot().Cursor)
}

func TestLoadMissingSong(t *testing.T) {
	sh, _, _, _ := newShell(t)
	_, err := sh.Execute(context.Background(), "load nope")
	assert.ErrorIs(t, err, track.ErrMissingTrack)
}

func TestPlayWithoutSong(t *testing.T) {
	sh, _, _, _ := newShell(t)
	_, err := sh.Execute(context.Background(), "play")
	assert.ErrorIs(t, err, track.ErrMissingTrack)
}

func TestReloadClosesPreviousSource(t *testing.T) {
	lib, first := fixture(t)
	second := &clock{}
	sources := []*clock{first, second}
	sh := New(lib, playback.NewEngine(), WithOutput(&bytes.Buffer{}), WithOpener(func(track.Layout) (playback.Source, error) {
		s := sources[0]
		sources = sources[1:]
		return s, nil
	}))

	_, err := sh.Execute(context.Background(), "load halo")
	require.NoError(t, err)
	_, err = sh.Execute(context.Background(), "load halo")
	require.NoError(t, err)
	assert.True(t, first.closed)
	assert.False(t, second.closed)
}

func TestSongsAndProcess(t *testing.T) {
	ctx := context.Background()
	sh, _, out, _ := newShell(t)

	_, err := sh.Execute(ctx, "songs")
	require.NoError(t, err)
	assert.Equal(t, "  halo\n", out.String())

	_, err = sh.Execute(ctx, "process")
	assert.Error(t, err, "no processor")

	var processed []string
	sh.process = func(_ context.Context, l track.Layout) error {
		processed = append(processed, l.Name())
		return nil
	}
	_, err = sh.Execute(ctx, "process")
	assert.ErrorIs(t, err, errUsage)

	_, err = sh.Execute(ctx, "process halo")
	require.NoError(t, err)
	assert.Equal(t, []string{"halo"}, processed)

	sh.process = func(context.Context, track.Layout) error { return errors.New("boom") }
	_, err = sh.Execute(ctx, "process halo")
	assert.EqualError(t, err, "boom")
}

func TestExecuteMisc(t *testing.T) {
	ctx := context.Background()
	sh, _, out, _ := newShell(t)

	quit, err := sh.Execute(ctx, "   ")
	assert.False(t, quit)
	assert.NoError(t, err)

	_, err = sh.Execute(ctx, "help")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "Commands:"))

	_, err = sh.Execute(ctx, "load")
	assert.ErrorIs(t, err, errUsage)

	_, err = sh.Execute(ctx, "dance")
	assert.ErrorContains(t, err, "unknown command")

	quit, err = sh.Execute(ctx, "EXIT")
	assert.True(t, quit)
	assert.NoError(t, err)
}

func TestStrip(t *testing.T) {
	snap := playback.Snapshot{
		Loaded:   true,
		Window:   playback.Window{Left: 0, Right: 4},
		PitchMin: 100,
		PitchMax: 1000,
		Live: track.Curve{
			Times: []float64{0, 1, 2, 3},
			F0:    []float64{100, math.NaN(), 1000, math.Sqrt(100 * 1000)},
		},
	}

	got := []rune(Strip(snap, 4))
	require.Len(t, got, 4)
	assert.Equal(t, '▁', got[0])
	assert.Equal(t, ' ', got[1])
	assert.Equal(t, '█', got[2])
	assert.Equal(t, '▅', got[3])

	assert.Equal(t, "", Strip(snap, 0))
	assert.Equal(t, "   ", Strip(playback.Snapshot{}, 3))
}
