package track

import (
	"errors"
	"fmt"
	"os"

	"github.com/sbinet/npyio"
)

// Curve is a pitch contour with its time axis. F0 holds NaN for
// unvoiced frames.
type Curve struct {
	Times []float64
	F0    []float64
}

// Len returns the number of frames.
func (c Curve) Len() int { return len(c.Times) }

// Contours is everything the playback engine needs for one song.
type Contours struct {
	Live       Curve
	Studio     Curve
	TrimOffset float64 // seconds, the metadata live_start
}

// WriteArray stores a float64 vector as a .npy file.
func WriteArray(path string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := npyio.Write(f, values); err != nil {
		f.Close()
		return fmt.Errorf("track: write %s: %w", path, err)
	}
	return f.Close()
}

// ReadArray loads a float64 vector from a .npy file.
func ReadArray(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingTrack, path)
		}
		return nil, err
	}
	defer f.Close()

	var values []float64
	if err := npyio.Read(f, &values); err != nil {
		return nil, fmt.Errorf("track: read %s: %w", path, err)
	}
	return values, nil
}

// SaveCurves writes the live and studio contours of l.
func SaveCurves(l Layout, live, studio Curve) error {
	for _, c := range []struct {
		curve       Curve
		times, pits string
	}{
		{live, l.LivePitchTimes(), l.LivePitch()},
		{studio, l.StudioPitchTimes(), l.StudioPitch()},
	} {
		if len(c.curve.Times) != len(c.curve.F0) {
			return fmt.Errorf("track: %d times for %d pitches", len(c.curve.Times), len(c.curve.F0))
		}
		if err := WriteArray(c.times, c.curve.Times); err != nil {
			return err
		}
		if err := WriteArray(c.pits, c.curve.F0); err != nil {
			return err
		}
	}
	return nil
}

func loadCurve(timesPath, f0Path string) (Curve, error) {
	times, err := ReadArray(timesPath)
	if err != nil {
		return Curve{}, err
	}
	f0, err := ReadArray(f0Path)
	if err != nil {
		return Curve{}, err
	}
	if len(times) != len(f0) {
		return Curve{}, fmt.Errorf("%w: %s has %d frames, %s has %d",
			ErrMissingTrack, timesPath, len(times), f0Path, len(f0))
	}
	return Curve{Times: times, F0: f0}, nil
}

// LoadContours reads both contours and the live trim offset of l.
func LoadContours(l Layout) (Contours, error) {
	meta, err := ReadMetadata(l.Metadata())
	if err != nil {
		return Contours{}, err
	}

	live, err := loadCurve(l.LivePitchTimes(), l.LivePitch())
	if err != nil {
		return Contours{}, err
	}
	studio, err := loadCurve(l.StudioPitchTimes(), l.StudioPitch())
	if err != nil {
		return Contours{}, err
	}

	return Contours{Live: live, Studio: studio, TrimOffset: meta.LiveStart}, nil
}
