package waveform

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
	"github.com/RyanBlaney/uwave/pkg/audio/dft"
	"github.com/RyanBlaney/uwave/pkg/audio/pcm"
)

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	got, err := ParseType("  SQUARE ")
	require.NoError(t, err)
	assert.Equal(t, Square, got)

	_, err = ParseType("triangle")
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Sine", Sine.DisplayName())
	assert.Equal(t, "Noise", Noise.DisplayName())
}

func TestSampleCount(t *testing.T) {
	p := Params{SampleRate: 22050, Duration: 500 * time.Millisecond}
	assert.Equal(t, 11025, p.SampleCount())

	p.Duration = 0
	assert.Equal(t, 0, p.SampleCount())
}

func TestGenerateSine(t *testing.T) {
	buf, err := Generate(Params{Type: Sine, SampleRate: 8000, Frequency: 1000, Duration: 10 * time.Millisecond})
	require.NoError(t, err)
	require.Equal(t, 80, buf.Len())
	assert.Equal(t, pcm.Format16Bit, buf.Format())

	assert.Equal(t, int16(0), buf.Sample(0, 0))
	assert.InDelta(t, 16000, buf.Sample(2, 0), 1)
	assert.InDelta(t, -16000, buf.Sample(6, 0), 1)
	for i := range buf.Len() {
		assert.LessOrEqual(t, math.Abs(float64(buf.Sample(i, 0))), 16000.0)
	}
}

func TestGenerateSquare(t *testing.T) {
	buf, err := Generate(Params{Type: Square, SampleRate: 8000, Frequency: 1000, Duration: 2 * time.Millisecond})
	require.NoError(t, err)

	want := []int16{
		0, 0, 0, 0,
		16000, 16000, 16000, 16000,
		-16000, -16000, -16000, -16000,
		16000, 16000, 16000, 16000,
	}
	assert.Equal(t, want, buf.Channel(0))
}

func TestGenerateSaw(t *testing.T) {
	buf, err := Generate(Params{Type: Saw, SampleRate: 8000, Frequency: 1000, Duration: 2 * time.Millisecond})
	require.NoError(t, err)

	want := []int16{
		16000, 12000, 8000, 4000, 0, -4000, -8000, -12000,
		16000, 12000, 8000, 4000, 0, -4000, -8000, -12000,
	}
	assert.Equal(t, want, buf.Channel(0))
}

func TestGenerate8Bit(t *testing.T) {
	buf, err := Generate(Params{Type: Square, SampleRate: 8000, Frequency: 1000, Duration: 2 * time.Millisecond, BitDepth: 8})
	require.NoError(t, err)
	assert.Equal(t, pcm.Format8Bit, buf.Format())
	assert.Equal(t, int16(128), buf.Sample(0, 0))
	assert.Equal(t, int16(255), buf.Sample(4, 0))
	assert.Equal(t, int16(0), buf.Sample(8, 0))

	sine, err := Generate(Params{Type: Sine, SampleRate: 8000, Frequency: 1000, Duration: 2 * time.Millisecond, BitDepth: 8})
	require.NoError(t, err)
	for i := range sine.Len() {
		v := sine.Sample(i, 0)
		assert.GreaterOrEqual(t, v, int16(0))
		assert.LessOrEqual(t, v, int16(255))
	}
	assert.Equal(t, int16(128), sine.Sample(0, 0))
}

func TestGenerateNoise(t *testing.T) {
	p := Params{Type: Noise, SampleRate: 44100, Duration: time.Second, Seed: 42}

	a, err := Generate(p)
	require.NoError(t, err)
	b, err := Generate(p)
	require.NoError(t, err)
	assert.Equal(t, a.Channel(0), b.Channel(0), "same seed must reproduce")

	p.Seed = 43
	c, err := Generate(p)
	require.NoError(t, err)
	assert.NotEqual(t, a.Channel(0), c.Channel(0))

	var sum, sumSq float64
	for _, v := range a.Channel(0) {
		sum += float64(v)
	}
	mean := sum / float64(a.Len())
	for _, v := range a.Channel(0) {
		d := float64(v) - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(a.Len()))

	assert.InDelta(t, 0, mean, 500)
	assert.InDelta(t, 15400, std, 1000)
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want error
	}{
		{"zero frequency", Params{Type: Sine, SampleRate: 8000, Duration: time.Second}, common.ErrInvalidInput},
		{"negative frequency", Params{Type: Saw, SampleRate: 8000, Frequency: -1, Duration: time.Second}, common.ErrInvalidInput},
		{"zero rate", Params{Type: Sine, Frequency: 440, Duration: time.Second}, common.ErrInvalidInput},
		{"negative duration", Params{Type: Sine, SampleRate: 8000, Frequency: 440, Duration: -time.Second}, common.ErrInvalidInput},
		{"saw above rate", Params{Type: Saw, SampleRate: 8000, Frequency: 9000, Duration: time.Second}, common.ErrInvalidInput},
		{"square above nyquist", Params{Type: Square, SampleRate: 8000, Frequency: 5000, Duration: time.Second}, common.ErrInvalidInput},
		{"24-bit", Params{Type: Sine, SampleRate: 8000, Frequency: 440, Duration: time.Second, BitDepth: 24}, common.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Generate(tt.p)
			assert.Nil(t, buf)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestNoiseIgnoresFrequency(t *testing.T) {
	buf, err := Generate(Params{Type: Noise, SampleRate: 8000, Duration: 100 * time.Millisecond, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 800, buf.Len())
}

func TestGeneratedSineAnalyzes(t *testing.T) {
	buf, err := Generate(Params{Type: Sine, SampleRate: 22050, Frequency: 440, Duration: time.Second})
	require.NoError(t, err)

	res, err := dft.NewEngine(dft.MethodDirect).AnalyzeBlock(buf, buf.SampleRate(), 1024)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.LowFreq, 440.0)
	assert.Greater(t, res.HighFreq, 440.0)
}
