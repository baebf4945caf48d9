package waveform

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
	"github.com/RyanBlaney/uwave/pkg/audio/pcm"
)

// Type is a synthetic waveform shape
type Type int

const (
	Sine Type = iota
	Square
	Saw
	Noise
)

var typeNames = []string{"sine", "square", "saw", "noise"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("waveform(%d)", int(t))
	}
	return typeNames[t]
}

// DisplayName returns the title-cased name used in console output
func (t Type) DisplayName() string {
	return cases.Title(language.English).String(t.String())
}

// Types lists every supported waveform in order
func Types() []Type {
	return []Type{Sine, Square, Saw, Noise}
}

// ParseType parses a waveform name, case-insensitively
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return Sine, common.NewInvalidInputError("waveform",
		fmt.Sprintf("unknown waveform %q (expected one of %s)", s, strings.Join(typeNames, ", ")))
}

// Params describes a signal to synthesize
type Params struct {
	Type       Type          `json:"type" yaml:"type"`
	SampleRate int           `json:"sample_rate" yaml:"sample_rate"`
	Frequency  float64       `json:"frequency" yaml:"frequency"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	BitDepth   int           `json:"bit_depth" yaml:"bit_depth"`

	// Seed drives the noise generator. Zero picks a random seed.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// SampleCount is the number of samples Generate will produce
func (p Params) SampleCount() int {
	if p.SampleRate <= 0 || p.Duration <= 0 {
		return 0
	}
	return int(int64(p.SampleRate) * int64(p.Duration) / int64(time.Second))
}

// Generate synthesizes a mono buffer. BitDepth 0 means 16-bit.
func Generate(p Params) (*pcm.Buffer, error) {
	if p.BitDepth == 0 {
		p.BitDepth = 16
	}
	format, err := pcm.FormatForBitDepth(p.BitDepth)
	if err != nil {
		return nil, err
	}
	if p.SampleRate <= 0 {
		return nil, common.NewInvalidInputError("waveform",
			fmt.Sprintf("sample rate must be positive, got %d", p.SampleRate))
	}
	if p.Duration < 0 {
		return nil, common.NewInvalidInputError("waveform",
			fmt.Sprintf("duration cannot be negative, got %s", p.Duration))
	}
	if p.Type != Noise && p.Frequency <= 0 {
		return nil, common.NewInvalidInputError("waveform",
			fmt.Sprintf("frequency must be positive, got %g", p.Frequency))
	}

	logger := logging.WithFields(logging.Fields{
		"component":   "waveform_generator",
		"waveform":    p.Type.String(),
		"sample_rate": p.SampleRate,
		"frequency":   p.Frequency,
		"bit_depth":   p.BitDepth,
	})

	buf := pcm.NewBuffer(p.SampleRate, 1, format)
	buf.SetSampleCount(p.SampleCount())

	switch p.Type {
	case Sine:
		generateSine(buf, p.Frequency)
	case Square:
		err = generateSquare(buf, p.Frequency, logger)
	case Saw:
		err = generateSaw(buf, p.Frequency, logger)
	case Noise:
		generateNoise(buf, p.Seed)
	default:
		err = common.NewInvalidInputError("waveform", fmt.Sprintf("unknown waveform %d", int(p.Type)))
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Waveform generated", logging.Fields{
		"samples":  buf.Len(),
		"duration": buf.Duration().String(),
	})

	return buf, nil
}

// amplitude and centre of the format; for 16-bit these are 16000 and 0
func levels(f pcm.SampleFormat) (amplitude, centre float64) {
	return float64(f.Max-f.Min) / 2, float64(f.Silence)
}

func generateSine(buf *pcm.Buffer, freq float64) {
	amplitude, centre := levels(buf.Format())
	step := 2 * math.Pi * freq / float64(buf.SampleRate())
	for i := range buf.Len() {
		buf.SetSample(i, 0, int16(centre+amplitude*math.Sin(float64(i)*step)))
	}
}

func generateSquare(buf *pcm.Buffer, freq float64, logger logging.Logger) error {
	halfCycle := int(float64(buf.SampleRate()) / (freq * 2))
	if halfCycle < 1 {
		return common.NewInvalidInputError("waveform",
			fmt.Sprintf("square wave at %g Hz needs a sample rate above %g", freq, freq*2))
	}

	logger.Debug("Square wave form", logging.Fields{"half_cycle": halfCycle})

	f := buf.Format()
	value := f.Silence
	count := 0
	for i := range buf.Len() {
		buf.SetSample(i, 0, value)
		count++
		if count >= halfCycle {
			if value == f.Max {
				value = f.Min
			} else {
				value = f.Max
			}
			count = 0
		}
	}
	return nil
}

func generateSaw(buf *pcm.Buffer, freq float64, logger logging.Logger) error {
	cycle := int(float64(buf.SampleRate()) / freq)
	if cycle < 1 {
		return common.NewInvalidInputError("waveform",
			fmt.Sprintf("saw wave at %g Hz needs a sample rate above %g", freq, freq))
	}

	f := buf.Format()
	delta := float64(f.Max-f.Min) / float64(cycle)

	logger.Debug("Saw wave form", logging.Fields{
		"cycle": cycle,
		"delta": delta,
	})

	count := 0
	for i := range buf.Len() {
		buf.SetSample(i, 0, int16(float64(f.Max)-delta*float64(count)))
		count++
		if count >= cycle {
			count = 0
		}
	}
	return nil
}

// generateNoise fills buf with Gaussian noise centred on silence with a
// standard deviation equal to the nominal amplitude, clamped to what the bit
// depth can store.
func generateNoise(buf *pcm.Buffer, seed uint64) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	amplitude, centre := levels(buf.Format())
	lo, hi := representable(buf.Format().BitDepth)
	for i := range buf.Len() {
		v := centre + amplitude*rng.NormFloat64()
		buf.SetSample(i, 0, int16(math.Max(lo, math.Min(hi, v))))
	}
}

func representable(bitDepth int) (lo, hi float64) {
	if bitDepth == 8 {
		return 0, 255
	}
	return math.MinInt16, math.MaxInt16
}
