package mfcc

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
	"github.com/RyanBlaney/uwave/pkg/audio/dft"
)

// WindowStrategy selects how the Hamming table is applied during pre-emphasis
type WindowStrategy int

const (
	// WindowParity multiplies every sample after the first by Hamming[1].
	// This reproduces the reference output bit for bit; it is almost
	// certainly an upstream defect.
	WindowParity WindowStrategy = iota

	// WindowPerSample multiplies sample i by Hamming[i]
	WindowPerSample
)

func (s WindowStrategy) String() string {
	switch s {
	case WindowParity:
		return "parity"
	case WindowPerSample:
		return "per-sample"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseWindowStrategy parses "parity" or "per-sample"
func ParseWindowStrategy(s string) (WindowStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parity":
		return WindowParity, nil
	case "per-sample", "per_sample", "persample":
		return WindowPerSample, nil
	default:
		return WindowParity, common.NewConfigurationError("mfcc", fmt.Sprintf("unknown window strategy: %q", s))
	}
}

// Config holds the pipeline parameters. Every field is required; use
// DefaultConfig for the standard values.
type Config struct {
	SampleRate      int            `json:"sample_rate" yaml:"sample_rate"`
	WindowLengthMs  int            `json:"window_length_ms" yaml:"window_length_ms"`
	FrameStrideMs   int            `json:"frame_stride_ms" yaml:"frame_stride_ms"`
	Cepstra         int            `json:"cepstra" yaml:"cepstra"`
	Filters         int            `json:"filters" yaml:"filters"`
	PreEmphasis     float64        `json:"pre_emphasis" yaml:"pre_emphasis"`
	LowFreq         float64        `json:"low_freq" yaml:"low_freq"`
	HighFreq        float64        `json:"high_freq" yaml:"high_freq"`
	Nfft            int            `json:"nfft" yaml:"nfft"`
	WindowStrategy  WindowStrategy `json:"window_strategy" yaml:"window_strategy"`
	TransformMethod dft.Method     `json:"transform_method" yaml:"transform_method"`
}

// DefaultNfft is 512 above 20 kHz and 2048 otherwise
func DefaultNfft(sampleRate int) int {
	if sampleRate > 20000 {
		return 512
	}
	return 2048
}

// DefaultConfig returns the standard 25 ms / 10 ms, 40 filter, 12 cepstra setup
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate:      sampleRate,
		WindowLengthMs:  25,
		FrameStrideMs:   10,
		Cepstra:         12,
		Filters:         40,
		PreEmphasis:     0.97,
		LowFreq:         50,
		HighFreq:        5500,
		Nfft:            DefaultNfft(sampleRate),
		WindowStrategy:  WindowParity,
		TransformMethod: dft.MethodDirect,
	}
}

// WindowLength is the window size in samples
func (c Config) WindowLength() int {
	return c.WindowLengthMs * c.SampleRate / 1000
}

// FrameStride is the hop between frames in samples
func (c Config) FrameStride() int {
	return c.FrameStrideMs * c.SampleRate / 1000
}

// FftBins is the number of non-redundant bins of an Nfft-point transform
func (c Config) FftBins() int {
	return c.Nfft/2 + 1
}

// Validate rejects configurations that would produce degenerate tables
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return configError("sample rate must be positive, got %d", c.SampleRate)
	case c.Filters <= 0:
		return configError("filter count must be positive, got %d", c.Filters)
	case c.Cepstra < 0:
		return configError("cepstra count cannot be negative, got %d", c.Cepstra)
	case c.WindowLength() < 2:
		return configError("window of %d ms at %d Hz is %d samples, need at least 2",
			c.WindowLengthMs, c.SampleRate, c.WindowLength())
	case c.FrameStride() <= 0:
		return configError("frame stride of %d ms at %d Hz is %d samples, need at least 1",
			c.FrameStrideMs, c.SampleRate, c.FrameStride())
	case c.Nfft < 2:
		return configError("nfft must be at least 2, got %d", c.Nfft)
	case c.LowFreq < 0:
		return configError("low frequency cannot be negative, got %g", c.LowFreq)
	case c.HighFreq <= c.LowFreq:
		return configError("high frequency %g must be above low frequency %g", c.HighFreq, c.LowFreq)
	case c.PreEmphasis < 0 || c.PreEmphasis > 1:
		return configError("pre-emphasis coefficient must be within [0, 1], got %g", c.PreEmphasis)
	case c.WindowStrategy != WindowParity && c.WindowStrategy != WindowPerSample:
		return configError("unknown window strategy %d", int(c.WindowStrategy))
	}
	return nil
}

func configError(format string, args ...any) error {
	return common.NewConfigurationError("mfcc", fmt.Sprintf(format, args...))
}
