package pcm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
)

func TestWAVRoundTrip16Bit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")

	samples := []int16{0, 1000, -1000, 16000, -16000, 32767, -32768, 7}
	src := NewMonoBuffer(samples, 22050, Format16Bit)
	require.NoError(t, SaveWAV(path, src))

	got, err := LoadWAV(path)
	require.NoError(t, err)

	assert.Equal(t, 22050, got.SampleRate())
	assert.Equal(t, 1, got.Channels())
	assert.Equal(t, Format16Bit, got.Format())
	assert.Equal(t, samples, got.Channel(0))
}

func TestWAVRoundTrip8BitStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")

	src := NewBuffer(8000, 2, Format8Bit)
	src.SetSampleCount(3)
	src.SetSample(0, 0, 0)
	src.SetSample(1, 0, 128)
	src.SetSample(2, 0, 255)
	src.SetSample(0, 1, 10)
	src.SetSample(1, 1, 20)
	src.SetSample(2, 1, 30)
	require.NoError(t, SaveWAV(path, src))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Format8Bit, got.Format())
	assert.Equal(t, 2, got.Channels())
	assert.Equal(t, []int16{0, 128, 255}, got.Channel(0))
	assert.Equal(t, []int16{10, 20, 30}, got.Channel(1))
	assert.Equal(t, int16(128), got.Sample(3, 0))
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a riff file"), 0644))

	_, err := LoadWAV(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDecoding))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load("song.mp3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrIO))
}
