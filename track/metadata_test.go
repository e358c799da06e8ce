package track

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata(t *testing.T) {
	in := "song_name=Halo\nlive_start=1.250\nstudio_start=0.040\nartist=Beyonce\ngarbage line\n"

	m, err := ParseMetadata(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "Halo", m.SongName)
	assert.InDelta(t, 1.25, m.LiveStart, 1e-12)
	assert.InDelta(t, 0.04, m.StudioStart, 1e-12)
	assert.Equal(t, map[string]string{"artist": "Beyonce"}, m.Extra)
}

func TestParseMetadataAbsentOffsetsAreZero(t *testing.T) {
	m, err := ParseMetadata(strings.NewReader("song_name=x\n"))
	require.NoError(t, err)
	assert.Zero(t, m.LiveStart)
	assert.Zero(t, m.StudioStart)
	assert.Nil(t, m.Extra)
}

func TestParseMetadataValueMayContainEquals(t *testing.T) {
	m, err := ParseMetadata(strings.NewReader("url=https://x.test/?a=b\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://x.test/?a=b", m.Extra["url"])
}

func TestParseMetadataRejectsInvalidOffsets(t *testing.T) {
	for _, in := range []string{
		"live_start=abc",
		"live_start=-1",
		"studio_start=NaN",
		"live_start=+Inf",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseMetadata(strings.NewReader(in))
			assert.ErrorIs(t, err, ErrInvalidMetadata)
		})
	}
}

func TestMetadataRoundTripPreservesExtraKeys(t *testing.T) {
	m := Metadata{
		SongName:    "Halo",
		LiveStart:   2.5,
		StudioStart: 0.125,
		Extra:       map[string]string{"zeta": "1", "alpha": "2"},
	}

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t,
		"song_name=Halo\nlive_start=2.500\nstudio_start=0.125\nalpha=2\nzeta=1\n",
		buf.String())

	got, err := ParseMetadata(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestReadWriteMetadataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")

	_, err := ReadMetadata(path)
	require.ErrorIs(t, err, ErrMissingTrack)

	require.NoError(t, WriteMetadata(path, Metadata{SongName: "s", LiveStart: 1}))
	got, err := ReadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "s", got.SongName)
	assert.InDelta(t, 1.0, got.LiveStart, 1e-12)

	err = WriteMetadata(path, Metadata{LiveStart: -1})
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}
