// Package separate isolates the vocal stem of a mixed recording by running
// an external source-separation model.
package separate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cwbudde/vocalsync/track"
)

// ErrNoStem reports a separator run that finished without producing the
// expected stem file.
var ErrNoStem = errors.New("separate: stem not produced")

// Separator writes the isolated vocals of input to output.
type Separator interface {
	Separate(ctx context.Context, input, output string) error
}

// Demucs runs the demucs command line in two-stem mode.
type Demucs struct {
	// Command is the program and leading arguments. Default
	// "python -m demucs".
	Command []string
	// Model is the pretrained model name. Default "htdemucs".
	Model string
	// Stem is the isolated stem. Default "vocals".
	Stem string
	// WorkDir receives the raw model output. A temporary directory is
	// used and removed when empty.
	WorkDir string

	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func (d Demucs) command() []string {
	if len(d.Command) > 0 {
		return d.Command
	}
	return []string{"python", "-m", "demucs"}
}

func (d Demucs) model() string {
	if d.Model != "" {
		return d.Model
	}
	return "htdemucs"
}

func (d Demucs) stem() string {
	if d.Stem != "" {
		return d.Stem
	}
	return "vocals"
}

// Args returns the arguments appended to Command for one input.
func (d Demucs) Args(input, workDir string) []string {
	return []string{"-n", d.model(), "--out", workDir, "--two-stems", d.stem(), input}
}

// Separate runs the model on input and moves the produced stem to output.
// A missing input reports track.ErrMissingTrack.
func (d Demucs) Separate(ctx context.Context, input, output string) error {
	if err := track.Require(input); err != nil {
		return err
	}

	work := d.WorkDir
	if work == "" {
		dir, err := os.MkdirTemp("", "vocalsync-separate-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		work = dir
	}

	cmdline := append(append([]string(nil), d.command()...), d.Args(input, work)...)
	cmd := exec.CommandContext(ctx, cmdline[0], cmdline[1:]...)
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("separating vocals", "input", input, "cmd", strings.Join(cmdline, " "))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("separate: %s: %w", cmdline[0], err)
	}

	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	produced := filepath.Join(work, d.model(), name, d.stem()+".wav")
	if err := track.Require(produced); err != nil {
		return fmt.Errorf("%w: %s", ErrNoStem, produced)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	return os.Rename(produced, output)
}

// Song isolates the live and studio vocals of a song folder.
func Song(ctx context.Context, sep Separator, l track.Layout) error {
	for _, job := range [][2]string{
		{l.LiveAudio(), l.LiveVocals()},
		{l.StudioAudio(), l.StudioVocals()},
	} {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sep.Separate(ctx, job[0], job[1]); err != nil {
			return err
		}
	}
	return nil
}
