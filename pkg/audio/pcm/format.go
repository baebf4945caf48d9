package pcm

import (
	"fmt"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
)

// SampleFormat holds the amplitude conventions of a PCM bit depth. It is
// resolved once when the sample format is established and never mutated.
type SampleFormat struct {
	BitDepth int   `json:"bit_depth" yaml:"bit_depth"`
	Silence  int16 `json:"silence" yaml:"silence"`
	Min      int16 `json:"min" yaml:"min"`
	Max      int16 `json:"max" yaml:"max"`
}

var (
	// Format8Bit is unsigned 8-bit PCM, centered on 128
	Format8Bit = SampleFormat{BitDepth: 8, Silence: 128, Min: 0, Max: 255}

	// Format16Bit is signed 16-bit PCM. Min/Max are the generator amplitudes,
	// not the representable range.
	Format16Bit = SampleFormat{BitDepth: 16, Silence: 0, Min: -16000, Max: 16000}
)

// FormatForBitDepth returns the sample format for a supported bit depth
func FormatForBitDepth(bitDepth int) (SampleFormat, error) {
	switch bitDepth {
	case 8:
		return Format8Bit, nil
	case 16:
		return Format16Bit, nil
	default:
		return SampleFormat{}, common.NewAnalysisError(common.ErrCodeUnsupportedFormat, "pcm",
			fmt.Sprintf("unsupported bit depth: %d", bitDepth), nil)
	}
}

// BytesPerSample returns the storage size of one sample of one channel
func (f SampleFormat) BytesPerSample() int {
	return f.BitDepth / 8
}
