package pcm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForBitDepth(t *testing.T) {
	tests := []struct {
		bits    int
		want    SampleFormat
		wantErr bool
	}{
		{8, Format8Bit, false},
		{16, Format16Bit, false},
		{24, SampleFormat{}, true},
		{0, SampleFormat{}, true},
	}

	for _, tt := range tests {
		got, err := FormatForBitDepth(tt.bits)
		if tt.wantErr {
			assert.Error(t, err, "bit depth %d", tt.bits)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	assert.Equal(t, int16(128), Format8Bit.Silence)
	assert.Equal(t, int16(0), Format16Bit.Silence)
}

func TestBufferSilenceOutOfRange(t *testing.T) {
	buf := NewMonoBuffer([]int16{10, 20, 30}, 8000, Format16Bit)

	assert.Equal(t, int16(10), buf.Sample(0, 0))
	assert.Equal(t, int16(30), buf.Sample(2, 0))
	assert.Equal(t, int16(0), buf.Sample(3, 0), "past the end")
	assert.Equal(t, int16(0), buf.Sample(-1, 0), "before the start")
	assert.Equal(t, int16(0), buf.Sample(1, 1), "unsupported channel")

	eight := NewMonoBuffer([]int16{200}, 8000, Format8Bit)
	assert.Equal(t, int16(128), eight.Sample(5, 0))
}

func TestBufferInterleavedChannels(t *testing.T) {
	buf := NewBuffer(44100, 2, Format16Bit)
	buf.SetSampleCount(4)

	for i := range 4 {
		buf.SetSample(i, 0, int16(i))
		buf.SetSample(i, 1, int16(-i))
	}
	buf.SetSample(10, 0, 99)

	assert.Equal(t, 4, buf.Len())
	assert.Equal(t, []int16{0, 1, 2, 3}, buf.Channel(0))
	assert.Equal(t, []int16{0, -1, -2, -3}, buf.Channel(1))
	assert.Equal(t, 16, buf.DataBytes())
}

func TestBufferSetSampleCountFillsSilence(t *testing.T) {
	buf := NewBuffer(8000, 1, Format8Bit)
	buf.SetSampleCount(3)

	assert.Equal(t, []int16{128, 128, 128}, buf.Channel(0))
}

func TestBufferDuration(t *testing.T) {
	buf := NewBuffer(16000, 1, Format16Bit)
	buf.SetSampleCount(8000)

	assert.Equal(t, 500*time.Millisecond, buf.Duration())
	assert.Equal(t, time.Duration(0), NewBuffer(0, 1, Format16Bit).Duration())
}
