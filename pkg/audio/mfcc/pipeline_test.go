package mfcc

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
	"github.com/RyanBlaney/uwave/pkg/audio/dft"
	"github.com/RyanBlaney/uwave/pkg/audio/pcm"
)

func toneBuffer(freq float64, rate, count int) *pcm.Buffer {
	samples := make([]int16, count)
	for i := range samples {
		samples[i] = int16(8000 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return pcm.NewMonoBuffer(samples, rate, pcm.Format16Bit)
}

type PipelineTestSuite struct {
	suite.Suite
	pipeline *Pipeline
	tone     *pcm.Buffer
}

func (s *PipelineTestSuite) SetupSuite() {
	p, err := New(DefaultConfig(16000))
	s.Require().NoError(err)
	s.pipeline = p
	s.tone = toneBuffer(440, 16000, 8000)
}

func (s *PipelineTestSuite) TestDerivedSizes() {
	s.Equal(400, s.pipeline.WindowLength())
	s.Equal(160, s.pipeline.FrameStride())
	s.Equal(1025, s.pipeline.FftBins())
	s.Equal(2048, s.pipeline.FrameBufferLength())
	s.Equal(13, s.pipeline.Cepstra())
}

func (s *PipelineTestSuite) TestFrameCount() {
	cases := map[int]int{
		-5:    0,
		0:     0,
		1:     1,
		160:   1,
		161:   2,
		16000: 100,
	}
	for total, want := range cases {
		s.Equal(want, s.pipeline.FrameCount(total), "total=%d", total)
	}
}

func (s *PipelineTestSuite) TestSilence() {
	buf := pcm.NewBuffer(16000, 1, pcm.Format16Bit)
	buf.SetSampleCount(16000)

	features := s.pipeline.Run(buf, buf.Len())
	s.Require().Len(features, 100)
	for i, frame := range features {
		s.Require().Len(frame, 13)
		// log of the 1.0 floor is exactly zero, so every coefficient is too
		for j, v := range frame {
			s.Equal(0.0, v, "frame %d coefficient %d", i, j)
		}
	}
}

func (s *PipelineTestSuite) TestEmptyInput() {
	s.Empty(s.pipeline.Run(s.tone, 0))
}

func (s *PipelineTestSuite) TestRunIsIdempotent() {
	first := s.pipeline.Run(s.tone, s.tone.Len())
	second := s.pipeline.Run(s.tone, s.tone.Len())
	s.Equal(first, second)
}

func (s *PipelineTestSuite) TestToneHasEnergy() {
	features := s.pipeline.Run(s.tone, s.tone.Len())
	s.Require().Len(features, 50)
	for i, frame := range features {
		s.Greater(frame[0], 0.0, "frame %d", i)
	}
}

func (s *PipelineTestSuite) TestTrailingFramesReadSilence() {
	// the last frame starts at 7840 and runs past the 8000 sample buffer
	features := s.pipeline.Run(s.tone, s.tone.Len())
	padded := pcm.NewMonoBuffer(append(s.tone.Channel(0), make([]int16, 1000)...), 16000, pcm.Format16Bit)
	s.Equal(features, s.pipeline.Run(padded, s.tone.Len()))
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func TestRunParallelMatchesRun(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	p, err := New(DefaultConfig(16000))
	require.NoError(t, err)
	tone := toneBuffer(1200, 16000, 12345)

	want := p.Run(tone, tone.Len())
	for _, workers := range []int{0, 1, 3, 16} {
		got, err := p.RunParallel(context.Background(), tone, tone.Len(), workers)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestRunParallelCancelled(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	p, err := New(DefaultConfig(16000))
	require.NoError(t, err)
	tone := toneBuffer(440, 16000, 16000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	features, err := p.RunParallel(ctx, tone, tone.Len(), 2)
	assert.Nil(t, features)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWindowStrategies(t *testing.T) {
	cfg := DefaultConfig(16000)
	parity, err := New(cfg)
	require.NoError(t, err)

	cfg.WindowStrategy = WindowPerSample
	perSample, err := New(cfg)
	require.NoError(t, err)

	tone := toneBuffer(440, 16000, 4000)
	assert.NotEqual(t, parity.Run(tone, tone.Len()), perSample.Run(tone, tone.Len()))
}

func TestFastTransformMatchesDirect(t *testing.T) {
	cfg := DefaultConfig(16000)
	direct, err := New(cfg)
	require.NoError(t, err)

	cfg.TransformMethod = dft.MethodFast
	fast, err := New(cfg)
	require.NoError(t, err)

	tone := toneBuffer(440, 16000, 4000)
	want := direct.Run(tone, tone.Len())
	got := fast.Run(tone, tone.Len())
	require.Len(t, got, len(want))
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], got[i][j], 1e-6, "frame %d coefficient %d", i, j)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(44100)
	assert.Equal(t, 512, cfg.Nfft)
	assert.Equal(t, 1102, cfg.WindowLength())
	assert.Equal(t, 441, cfg.FrameStride())
	assert.Equal(t, 257, cfg.FftBins())

	p, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1102, p.FrameBufferLength())

	assert.Equal(t, 2048, DefaultConfig(16000).Nfft)
	assert.Equal(t, 2048, DefaultConfig(20000).Nfft)
	assert.Equal(t, 512, DefaultConfig(22050).Nfft)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"no filters", func(c *Config) { c.Filters = 0 }},
		{"negative cepstra", func(c *Config) { c.Cepstra = -1 }},
		{"tiny window", func(c *Config) { c.WindowLengthMs = 0 }},
		{"zero stride", func(c *Config) { c.FrameStrideMs = 0 }},
		{"inverted band", func(c *Config) { c.LowFreq, c.HighFreq = 4000, 300 }},
		{"empty band", func(c *Config) { c.HighFreq = c.LowFreq }},
		{"negative low", func(c *Config) { c.LowFreq = -1 }},
		{"nfft too small", func(c *Config) { c.Nfft = 1 }},
		{"pre-emphasis above one", func(c *Config) { c.PreEmphasis = 1.5 }},
		{"unknown strategy", func(c *Config) { c.WindowStrategy = WindowStrategy(7) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(16000)
			tt.modify(&cfg)

			p, err := New(cfg)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrConfiguration), "got %v", err)
		})
	}
}

func TestHighFreqAboveNyquistIsAccepted(t *testing.T) {
	p, err := New(DefaultConfig(8000))
	require.NoError(t, err)

	tone := toneBuffer(440, 8000, 800)
	assert.Len(t, p.Run(tone, tone.Len()), 10)
}

func TestParseWindowStrategy(t *testing.T) {
	s, err := ParseWindowStrategy("per-sample")
	require.NoError(t, err)
	assert.Equal(t, WindowPerSample, s)

	s, err = ParseWindowStrategy("")
	require.NoError(t, err)
	assert.Equal(t, WindowParity, s)

	_, err = ParseWindowStrategy("hann")
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}
