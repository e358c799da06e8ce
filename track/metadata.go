package track

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidMetadata reports a data.txt entry that fails validation.
var ErrInvalidMetadata = errors.New("track: invalid metadata")

const (
	keySongName    = "song_name"
	keyLiveStart   = "live_start"
	keyStudioStart = "studio_start"
)

// Metadata is the typed form of a song's data.txt.
//
// LiveStart and StudioStart are the seconds of leading silence removed from
// each vocal track. Absent offsets read as zero. Keys that are not known are
// kept in Extra and written back sorted.
type Metadata struct {
	SongName    string
	LiveStart   float64
	StudioStart float64
	Extra       map[string]string
}

// ParseMetadata reads key=value lines. Lines without '=' are ignored.
func ParseMetadata(r io.Reader) (Metadata, error) {
	var m Metadata
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}

		var err error
		switch key {
		case keySongName:
			m.SongName = value
		case keyLiveStart:
			m.LiveStart, err = parseOffset(key, value)
		case keyStudioStart:
			m.StudioStart, err = parseOffset(key, value)
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]string)
			}
			m.Extra[key] = value
		}
		if err != nil {
			return Metadata{}, err
		}
	}
	if err := sc.Err(); err != nil {
		return Metadata{}, err
	}
	return m, nil
}

func parseOffset(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidMetadata, key, value)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %s=%v must be finite and non-negative", ErrInvalidMetadata, key, v)
	}
	return v, nil
}

// Validate checks the offsets of a programmatically built Metadata.
func (m Metadata) Validate() error {
	for key, v := range map[string]float64{keyLiveStart: m.LiveStart, keyStudioStart: m.StudioStart} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s=%v must be finite and non-negative", ErrInvalidMetadata, key, v)
		}
	}
	return nil
}

// WriteTo writes m in data.txt form. Offsets use millisecond precision.
func (m Metadata) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	if m.SongName != "" {
		fmt.Fprintf(&b, "%s=%s\n", keySongName, m.SongName)
	}
	fmt.Fprintf(&b, "%s=%.3f\n", keyLiveStart, m.LiveStart)
	fmt.Fprintf(&b, "%s=%.3f\n", keyStudioStart, m.StudioStart)

	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, m.Extra[k])
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// ReadMetadata loads the metadata file at path. A missing file reports
// ErrMissingTrack.
func ReadMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Metadata{}, fmt.Errorf("%w: %s", ErrMissingTrack, path)
		}
		return Metadata{}, err
	}
	defer f.Close()

	m, err := ParseMetadata(f)
	if err != nil {
		return Metadata{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteMetadata validates m and replaces the file at path.
func WriteMetadata(path string, m Metadata) error {
	if err := m.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
