package mfcc

import (
	"math"

	"github.com/RyanBlaney/sonido-sonar/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sonar/algorithms/windowing"
	"gonum.org/v1/gonum/mat"
)

var melScale = spectral.NewMelScale()

// HertzToMel converts a frequency in Hz to the mel scale
func HertzToMel(hz float64) float64 {
	return melScale.HzToMel(hz)
}

// MelToHertz is the inverse of HertzToMel
func MelToHertz(mel float64) float64 {
	return melScale.MelToHz(mel)
}

// newFilterbank builds a Filters x FftBins matrix of triangular filters
// whose centres are spaced evenly on the mel scale between LowFreq and HighFreq.
// Centres stay at their exact frequencies; they are not snapped to bins.
func newFilterbank(cfg Config) *mat.Dense {
	filters, bins := cfg.Filters, cfg.FftBins()

	lowMel := HertzToMel(cfg.LowFreq)
	highMel := HertzToMel(cfg.HighFreq)
	centres := make([]float64, filters+2)
	for i := range centres {
		centres[i] = MelToHertz(lowMel + (highMel-lowMel)/float64(filters+1)*float64(i))
	}

	binFreq := make([]float64, bins)
	for i := range binFreq {
		binFreq[i] = float64(cfg.SampleRate) / 2 / float64(bins-1) * float64(i)
	}

	fb := mat.NewDense(filters, bins, nil)
	for filt := 1; filt <= filters; filt++ {
		left, centre, right := centres[filt-1], centres[filt], centres[filt+1]
		for bin, f := range binFreq {
			var weight float64
			switch {
			case f < left:
			case f <= centre:
				weight = (f - left) / (centre - left)
			case f <= right:
				weight = (right - f) / (right - centre)
			}
			fb.Set(filt-1, bin, weight)
		}
	}
	return fb
}

// newHamming returns the symmetric Hamming table 0.54 - 0.46*cos(2*pi*i/(n-1))
func newHamming(length int) []float64 {
	coeffs := windowing.NewHamming(length, true).GetCoefficients()
	w := make([]float64, length)
	copy(w, coeffs)
	return w
}

// newDCT builds the (Cepstra+1) x Filters type-II DCT basis
func newDCT(cepstra, filters int) *mat.Dense {
	c := math.Sqrt(2 / float64(filters))
	dct := mat.NewDense(cepstra+1, filters, nil)
	for i := 0; i <= cepstra; i++ {
		for j := 0; j < filters; j++ {
			dct.Set(i, j, c*math.Cos(math.Pi/float64(filters)*float64(i)*(float64(j)+0.5)))
		}
	}
	return dct
}
