// Package shell is the interactive control surface for playback: load a
// song, drive the transport and look at the revealed live pitch curve.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/cwbudde/vocalsync/playback"
	"github.com/cwbudde/vocalsync/track"
)

// OpenFunc returns the audio source for a song.
type OpenFunc func(l track.Layout) (playback.Source, error)

// ProcessFunc runs the batch pipeline for a song.
type ProcessFunc func(ctx context.Context, l track.Layout) error

// CurrentSetter remembers the last loaded song.
type CurrentSetter interface {
	SetCurrent(ctx context.Context, name string) error
}

// Option configures a Shell.
type Option func(*Shell)

// WithOpener sets how audio sources are opened.
func WithOpener(fn OpenFunc) Option {
	return func(s *Shell) { s.open = fn }
}

// WithProcessor enables the process command.
func WithProcessor(fn ProcessFunc) Option {
	return func(s *Shell) { s.process = fn }
}

// WithCurrent records loaded songs.
func WithCurrent(c CurrentSetter) Option {
	return func(s *Shell) { s.current = c }
}

// WithOutput redirects command output. Default os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) {
		if w != nil {
			s.out = w
		}
	}
}

// Shell executes playback commands against an Engine.
type Shell struct {
	lib     track.Library
	engine  *playback.Engine
	open    OpenFunc
	process ProcessFunc
	current CurrentSetter
	out     io.Writer

	song   string
	source playback.Source
}

// New returns a shell for the songs of lib.
func New(lib track.Library, engine *playback.Engine, opts ...Option) *Shell {
	s := &Shell{lib: lib, engine: engine, out: os.Stdout}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var errUsage = errors.New("shell: usage")

const help = `Commands:
  load <song>      load contours and audio of a song
  play             start or resume playback
  pause            pause playback
  reset            stop, rewind and clear the curve
  status           show position and the revealed curve
  songs            list songs in the library
  process [song]   run the pipeline (default: loaded song)
  help             show this help
  exit             leave the shell
`

// Execute runs one command line. quit is true after exit.
func (s *Shell) Execute(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(s.out, help)
	case "load":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: load <song>", errUsage)
		}
		return false, s.load(ctx, args[0])
	case "play":
		return false, s.play()
	case "pause":
		return false, s.engine.Pause()
	case "reset":
		return false, s.engine.Reset()
	case "status":
		s.status()
	case "songs":
		return false, s.songs()
	case "process":
		return false, s.runProcess(ctx, args)
	default:
		return false, fmt.Errorf("shell: unknown command %q (try help)", cmd)
	}
	return false, nil
}

func (s *Shell) load(ctx context.Context, name string) error {
	l := s.lib.Song(name)
	contours, err := track.LoadContours(l)
	if err != nil {
		return err
	}
	if s.open == nil {
		return fmt.Errorf("%w: no audio output", track.ErrMissingTrack)
	}
	src, err := s.open(l)
	if err != nil {
		return err
	}
	if err := s.engine.Load(contours, src); err != nil {
		return err
	}

	if c, ok := s.source.(io.Closer); ok && s.source != src {
		c.Close()
	}
	s.source = src
	s.song = name

	if s.current != nil {
		if err := s.current.SetCurrent(ctx, name); err != nil {
			fmt.Fprintf(s.out, "warning: %v\n", err)
		}
	}
	fmt.Fprintf(s.out, "loaded %s: %d live frames, trim offset %.3fs\n", name, contours.Live.Len(), contours.TrimOffset)
	return nil
}

func (s *Shell) play() error {
	switch s.engine.Snapshot().State {
	case playback.Paused:
		return s.engine.Resume()
	case playback.Playing:
		return nil
	default:
		return s.engine.Start()
	}
}

func (s *Shell) songs() error {
	names, err := s.lib.Songs()
	if err != nil {
		return err
	}
	for _, n := range names {
		marker := " "
		if n == s.song {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %s\n", marker, n)
	}
	return nil
}

func (s *Shell) runProcess(ctx context.Context, args []string) error {
	if s.process == nil {
		return errors.New("shell: processing is not available")
	}
	name := s.song
	if len(args) > 0 {
		name = args[0]
	}
	if name == "" {
		return fmt.Errorf("%w: process <song>", errUsage)
	}
	if err := s.process(ctx, s.lib.Song(name)); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "processed %s\n", name)
	return nil
}

func (s *Shell) status() {
	snap := s.engine.Snapshot()
	song := s.song
	if song == "" {
		song = "-"
	}
	fmt.Fprintf(s.out, "song=%s state=%s position=%.2fs marker=%.2fs revealed=%d window=[%.1f, %.1f]\n",
		song, snap.State, snap.Position, snap.Marker, snap.Cursor, snap.Window.Left, snap.Window.Right)
	if snap.Loaded {
		fmt.Fprintf(s.out, "|%s|\n", Strip(snap, 60))
	}
}

var levels = []rune("▁▂▃▄▅▆▇█")

// Strip draws the revealed live curve inside the snapshot window as one
// line of width cells. Each cell shows the last voiced pitch in its time
// slice on a log scale between PitchMin and PitchMax; empty cells are
// blank.
func Strip(snap playback.Snapshot, width int) string {
	if width <= 0 {
		return ""
	}
	cells := make([]rune, width)
	for i := range cells {
		cells[i] = ' '
	}

	vis := snap.Visible()
	span := snap.Window.Width()
	if span <= 0 || snap.PitchMax <= snap.PitchMin {
		return string(cells)
	}
	lo, hi := math.Log(snap.PitchMin), math.Log(snap.PitchMax)

	for i, t := range vis.Times {
		f := vis.F0[i]
		if math.IsNaN(f) || f <= 0 {
			continue
		}
		col := min(int((t-snap.Window.Left)/span*float64(width)), width-1)
		if col < 0 {
			continue
		}
		frac := (math.Log(f) - lo) / (hi - lo)
		lvl := min(max(int(frac*float64(len(levels))), 0), len(levels)-1)
		cells[col] = levels[lvl]
	}
	return string(cells)
}

func (s *Shell) completer() readline.AutoCompleter {
	var songs []readline.PrefixCompleterInterface
	if names, err := s.lib.Songs(); err == nil {
		for _, n := range names {
			songs = append(songs, readline.PcItem(n))
		}
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("load", songs...),
		readline.PcItem("play"),
		readline.PcItem("pause"),
		readline.PcItem("reset"),
		readline.PcItem("status"),
		readline.PcItem("songs"),
		readline.PcItem("process", songs...),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// Run reads commands until exit, EOF or an interrupt. The engine is ticked
// in the background for the lifetime of the shell.
func (s *Shell) Run(ctx context.Context, historyFile string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.engine.Run(ctx)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "vocalsync> ",
		HistoryFile:  historyFile,
		AutoComplete: s.completer(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	defer func() {
		if c, ok := s.source.(io.Closer); ok {
			c.Close()
		}
	}()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := s.Execute(ctx, line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}
