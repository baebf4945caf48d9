package dft

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
	"github.com/RyanBlaney/uwave/pkg/audio/pcm"
)

// MinFrameSize is the smallest block AnalyzeBlock accepts
const MinFrameSize = 4

// Method selects how an Engine computes spectra
type Method int

const (
	// MethodDirect always uses the O(n^2) direct summation
	MethodDirect Method = iota

	// MethodFast uses go-dsp for power-of-two lengths and falls back to the
	// direct sum otherwise
	MethodFast
)

func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodFast:
		return "fast"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod parses "direct" or "fast"
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct":
		return MethodDirect, nil
	case "fast", "fft":
		return MethodFast, nil
	default:
		return MethodDirect, common.NewConfigurationError("dft", fmt.Sprintf("unknown transform method: %q", s))
	}
}

// Engine computes spectra of real-valued frames. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	method Method
	logger logging.Logger
}

// BlockAnalysis holds the result of a single windowed DFT block
type BlockAnalysis struct {
	Spectrum    []complex128 `json:"-" yaml:"-"`
	SampleRate  int          `json:"sample_rate" yaml:"sample_rate"`
	FrameSize   int          `json:"frame_size" yaml:"frame_size"`
	DeltaFreq   float64      `json:"delta_freq" yaml:"delta_freq"`
	DominantBin int          `json:"dominant_bin" yaml:"dominant_bin"`
	LowFreq     float64      `json:"low_freq" yaml:"low_freq"`
	HighFreq    float64      `json:"high_freq" yaml:"high_freq"`
	Method      string       `json:"method" yaml:"method"`
}

// NewEngine creates a transform engine
func NewEngine(method Method) *Engine {
	return &Engine{
		method: method,
		logger: logging.WithFields(logging.Fields{
			"component": "dft_engine",
			"method":    method.String(),
		}),
	}
}

func (e *Engine) Method() Method {
	return e.method
}

// Spectrum transforms a real-valued frame
func (e *Engine) Spectrum(frame []float64) []complex128 {
	if e.method == MethodFast && IsPowerOfTwo(len(frame)) {
		return fft.FFTReal(frame)
	}
	return TransformReal(frame)
}

// AnalyzeBlock windows the first frameSize samples of src, transforms them and
// locates the dominant frequency band
func (e *Engine) AnalyzeBlock(src pcm.SampleSource, sampleRate, frameSize int) (*BlockAnalysis, error) {
	if frameSize < MinFrameSize {
		return nil, common.NewInvalidInputError("dft",
			fmt.Sprintf("frame size must be at least %d, got %d", MinFrameSize, frameSize))
	}
	if sampleRate <= 0 {
		return nil, common.NewInvalidInputError("dft",
			fmt.Sprintf("sample rate must be positive, got %d", sampleRate))
	}

	logger := e.logger.WithFields(logging.Fields{
		"function":    "AnalyzeBlock",
		"frame_size":  frameSize,
		"sample_rate": sampleRate,
	})

	logger.Debug("Computing windowed DFT")

	spectrum := e.Spectrum(WindowedFrame(src, frameSize))

	bin, err := DominantBinReal(spectrum, true)
	if err != nil {
		return nil, err
	}

	delta := float64(sampleRate) / float64(frameSize)
	result := &BlockAnalysis{
		Spectrum:    spectrum,
		SampleRate:  sampleRate,
		FrameSize:   frameSize,
		DeltaFreq:   delta,
		DominantBin: bin,
		LowFreq:     float64(bin) * delta,
		HighFreq:    float64(bin+1) * delta,
		Method:      e.method.String(),
	}

	logger.Debug("Windowed DFT completed", logging.Fields{
		"dominant_bin": bin,
		"low_freq":     result.LowFreq,
		"high_freq":    result.HighFreq,
	})

	return result, nil
}

// String renders the dominant band the way the console report prints it
func (b *BlockAnalysis) String() string {
	return fmt.Sprintf("Primary Freq: %g - %g Hz", b.LowFreq, b.HighFreq)
}

// RealParts returns the real components of the lower half of the spectrum
func (b *BlockAnalysis) RealParts() []float64 {
	half := len(b.Spectrum) / 2
	out := make([]float64, half)
	for i := range half {
		out[i] = real(b.Spectrum[i])
	}
	return out
}
