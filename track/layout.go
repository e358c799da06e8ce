package track

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ErrMissingTrack reports an audio or contour asset that has not been
// produced yet or was not loaded.
var ErrMissingTrack = errors.New("track: missing track")

// Library is the root directory holding one folder per song.
type Library struct {
	Root string
}

// Song returns the layout of the named song folder.
func (l Library) Song(name string) Layout {
	return Layout{Dir: filepath.Join(l.Root, name)}
}

// Songs lists the song folders that contain a data.txt file, sorted by name.
func (l Library) Songs() ([]string, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(l.Song(e.Name()).Metadata()); err == nil {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Layout names every file of a single song folder.
type Layout struct {
	Dir string
}

// Name is the song name, the base name of the folder.
func (l Layout) Name() string { return filepath.Base(l.Dir) }

func (l Layout) Raw() string      { return filepath.Join(l.Dir, "raw") }
func (l Layout) Metadata() string { return filepath.Join(l.Dir, "data.txt") }

func (l Layout) LiveAudio() string   { return filepath.Join(l.Raw(), "live_audio.wav") }
func (l Layout) StudioAudio() string { return filepath.Join(l.Raw(), "studio_audio.wav") }

func (l Layout) LiveVocals() string   { return filepath.Join(l.Raw(), "live_vocals.wav") }
func (l Layout) StudioVocals() string { return filepath.Join(l.Raw(), "studio_vocals.wav") }

func (l Layout) LiveTrimmed() string   { return filepath.Join(l.Raw(), "live_vocals_trimmed.wav") }
func (l Layout) StudioTrimmed() string { return filepath.Join(l.Raw(), "studio_vocals_trimmed.wav") }

// SeparatorTemp is the scratch directory handed to the voice separator.
func (l Layout) SeparatorTemp() string { return filepath.Join(l.Raw(), "separator_temp") }

func (l Layout) StudioWarped() string { return filepath.Join(l.Dir, "studio_vocals_warped.wav") }

func (l Layout) LivePitch() string        { return filepath.Join(l.Dir, "live_pitch.npy") }
func (l Layout) LivePitchTimes() string   { return filepath.Join(l.Dir, "live_pitch_times.npy") }
func (l Layout) StudioPitch() string      { return filepath.Join(l.Dir, "studio_pitch.npy") }
func (l Layout) StudioPitchTimes() string { return filepath.Join(l.Dir, "studio_pitch_times.npy") }

// Ensure creates the song folder and its raw directory.
func (l Layout) Ensure() error {
	return os.MkdirAll(l.Raw(), 0o755)
}

// Require returns ErrMissingTrack naming the first path that does not exist.
func Require(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrMissingTrack, p)
			}
			return err
		}
	}
	return nil
}
