package dft

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-sonar/algorithms/windowing"
	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
	"github.com/RyanBlaney/uwave/pkg/audio/pcm"
)

// twiddles returns cos/sin of 2*pi*m/n for m in [0, n). The direct sum
// indexes it with (t*k) mod n, which keeps the angle in [0, 2*pi).
func twiddles(n int) (cos, sin []float64) {
	cos = make([]float64, n)
	sin = make([]float64, n)
	for m := range n {
		sin[m], cos[m] = math.Sincos(2 * math.Pi * float64(m) / float64(n))
	}
	return cos, sin
}

// Transform computes the DFT of the complex vector given as separate real and
// imaginary parts by direct O(n^2) summation. N need not be a power of two.
func Transform(inReal, inImag []float64) ([]float64, []float64, error) {
	if len(inReal) != len(inImag) {
		return nil, nil, common.NewInvalidInputError("dft",
			fmt.Sprintf("real/imaginary length mismatch: %d != %d", len(inReal), len(inImag)))
	}

	n := len(inReal)
	outReal := make([]float64, n)
	outImag := make([]float64, n)
	if n == 0 {
		return outReal, outImag, nil
	}

	cos, sin := twiddles(n)
	for k := range n {
		sumReal, sumImag := 0.0, 0.0
		for t := range n {
			m := (t * k) % n
			sumReal += inReal[t]*cos[m] + inImag[t]*sin[m]
			sumImag += -inReal[t]*sin[m] + inImag[t]*cos[m]
		}
		outReal[k] = sumReal
		outImag[k] = sumImag
	}

	return outReal, outImag, nil
}

// TransformComplex is Transform over a complex128 vector
func TransformComplex(in []complex128) []complex128 {
	n := len(in)
	out := make([]complex128, n)
	if n == 0 {
		return out
	}

	cos, sin := twiddles(n)
	for k := range n {
		sumReal, sumImag := 0.0, 0.0
		for t, x := range in {
			m := (t * k) % n
			re, im := real(x), imag(x)
			sumReal += re*cos[m] + im*sin[m]
			sumImag += -re*sin[m] + im*cos[m]
		}
		out[k] = complex(sumReal, sumImag)
	}

	return out
}

// TransformReal is the direct DFT of a real-valued vector
func TransformReal(in []float64) []complex128 {
	n := len(in)
	out := make([]complex128, n)
	if n == 0 {
		return out
	}

	cos, sin := twiddles(n)
	for k := range n {
		sumReal, sumImag := 0.0, 0.0
		for t, x := range in {
			m := (t * k) % n
			sumReal += x * cos[m]
			sumImag -= x * sin[m]
		}
		out[k] = complex(sumReal, sumImag)
	}

	return out
}

// FastTransform computes the same result as TransformComplex with
// mjibson/go-dsp. Only power-of-two lengths are accepted.
func FastTransform(in []complex128) ([]complex128, error) {
	if !IsPowerOfTwo(len(in)) {
		return nil, common.NewInvalidInputError("dft",
			fmt.Sprintf("fast transform requires a power-of-two length, got %d", len(in)))
	}
	return fft.FFT(in), nil
}

// IsPowerOfTwo reports whether n is a positive power of two
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// HannWindow returns the periodic Hann weights 0.5 - 0.5*cos(2*pi*i/n)
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	if n <= 0 {
		return w
	}
	copy(w, windowing.NewHann(n, false).GetCoefficients())
	return w
}

// WindowedFrame removes the silence bias from the first frameSize samples of
// channel 0 and applies the Hann window
func WindowedFrame(src pcm.SampleSource, frameSize int) []float64 {
	silence := float64(src.Format().Silence)
	window := HannWindow(frameSize)
	frame := make([]float64, frameSize)
	for i := range frameSize {
		frame[i] = (float64(src.Sample(i, 0)) - silence) * window[i]
	}
	return frame
}

// WindowedTransform is the direct DFT of WindowedFrame(src, frameSize)
func WindowedTransform(src pcm.SampleSource, frameSize int) []complex128 {
	if frameSize <= 0 {
		return []complex128{}
	}
	return TransformReal(WindowedFrame(src, frameSize))
}

// MagnitudeSquared returns |c|^2 for every bin
func MagnitudeSquared(spectrum []complex128) []float64 {
	power := make([]float64, len(spectrum))
	for i, c := range spectrum {
		power[i] = real(c)*real(c) + imag(c)*imag(c)
	}
	return power
}

// DominantBin returns the index of the largest real component in the lower
// half of the spectrum. The running maximum starts at 0, so a spectrum whose
// real parts are all <= 0 yields 0; ties keep the lowest index.
func DominantBin(spectrum []complex128) int {
	maxValue := 0.0
	maxIdx := 0
	for i := 0; i < len(spectrum)/2; i++ {
		if real(spectrum[i]) > maxValue {
			maxValue = real(spectrum[i])
			maxIdx = i
		}
	}
	return maxIdx
}

// DominantBinReal is DominantBin gated on the caller asserting the spectrum
// came from real input. The half-spectrum scan relies on conjugate symmetry.
func DominantBinReal(spectrum []complex128, realInput bool) (int, error) {
	if !realInput {
		return 0, common.NewInvalidInputError("dft",
			"dominant bin search over half the spectrum requires real-valued input")
	}
	return DominantBin(spectrum), nil
}
