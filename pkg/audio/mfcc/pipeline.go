package mfcc

import (
	"context"
	"math"
	"runtime"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/uwave/pkg/audio/dft"
	"github.com/RyanBlaney/uwave/pkg/audio/pcm"
)

// Pipeline turns a sample stream into a sequence of cepstral feature vectors.
// Tables are built once by New and never mutated, so a Pipeline may be run
// from any number of goroutines at once.
type Pipeline struct {
	cfg          Config
	windowLength int
	frameStride  int
	fftBins      int
	frameLength  int

	hamming    []float64
	filterbank *mat.Dense
	dct        *mat.Dense

	engine *dft.Engine
	logger logging.Logger
}

// New validates cfg and precomputes the filterbank, Hamming and DCT tables
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:          cfg,
		windowLength: cfg.WindowLength(),
		frameStride:  cfg.FrameStride(),
		fftBins:      cfg.FftBins(),
		frameLength:  max(cfg.WindowLength(), cfg.Nfft),
		hamming:      newHamming(cfg.WindowLength()),
		filterbank:   newFilterbank(cfg),
		dct:          newDCT(cfg.Cepstra, cfg.Filters),
		engine:       dft.NewEngine(cfg.TransformMethod),
		logger: logging.WithFields(logging.Fields{
			"component":   "mfcc_pipeline",
			"sample_rate": cfg.SampleRate,
			"filters":     cfg.Filters,
			"cepstra":     cfg.Cepstra,
		}),
	}

	if nyquist := float64(cfg.SampleRate) / 2; cfg.HighFreq > nyquist {
		p.logger.Warn("High frequency is above Nyquist, upper filters will be truncated", logging.Fields{
			"high_freq": cfg.HighFreq,
			"nyquist":   nyquist,
		})
	}

	p.logger.Debug("MFCC tables initialized", logging.Fields{
		"window_length": p.windowLength,
		"frame_stride":  p.frameStride,
		"nfft":          cfg.Nfft,
		"fft_bins":      p.fftBins,
		"frame_length":  p.frameLength,
		"strategy":      cfg.WindowStrategy.String(),
	})

	return p, nil
}

func (p *Pipeline) Config() Config {
	return p.cfg
}

func (p *Pipeline) WindowLength() int {
	return p.windowLength
}

func (p *Pipeline) FrameStride() int {
	return p.frameStride
}

func (p *Pipeline) FftBins() int {
	return p.fftBins
}

// FrameBufferLength is the length of the transformed buffer, max(WindowLength, Nfft)
func (p *Pipeline) FrameBufferLength() int {
	return p.frameLength
}

// Cepstra is the number of coefficients per frame, Config.Cepstra+1
func (p *Pipeline) Cepstra() int {
	return p.cfg.Cepstra + 1
}

// Hamming returns a copy of the window table
func (p *Pipeline) Hamming() []float64 {
	out := make([]float64, len(p.hamming))
	copy(out, p.hamming)
	return out
}

// Filterbank returns a copy of the Filters x FftBins weight matrix
func (p *Pipeline) Filterbank() *mat.Dense {
	return mat.DenseCopyOf(p.filterbank)
}

// DCT returns a copy of the (Cepstra+1) x Filters basis
func (p *Pipeline) DCT() *mat.Dense {
	return mat.DenseCopyOf(p.dct)
}

// FrameCount is ceil(total / stride); frames are started at every stride
// boundary below total.
func (p *Pipeline) FrameCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.frameStride - 1) / p.frameStride
}

// Run processes frames starting at 0, stride, 2*stride, ... below total.
// Samples past the end of src read as silence.
func (p *Pipeline) Run(src pcm.SampleSource, total int) [][]float64 {
	count := p.FrameCount(total)
	p.logger.Debug("Starting MFCC run", logging.Fields{
		"total_samples": total,
		"frames":        count,
	})

	features := make([][]float64, 0, count)
	for start := 0; start < total; start += p.frameStride {
		features = append(features, p.processFrame(src, start))
	}

	p.logger.Debug("MFCC run completed", logging.Fields{"frames": len(features)})
	return features
}

// RunParallel computes the same features as Run with up to workers frames in
// flight. Results are ordered by frame index. workers <= 0 means GOMAXPROCS.
func (p *Pipeline) RunParallel(ctx context.Context, src pcm.SampleSource, total, workers int) ([][]float64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	count := p.FrameCount(total)
	logger := p.logger.WithFields(logging.Fields{
		"function": "RunParallel",
		"frames":   count,
		"workers":  workers,
	})
	logger.Debug("Starting parallel MFCC run")

	features := make([][]float64, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for idx := range count {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			features[idx] = p.processFrame(src, idx*p.frameStride)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("Parallel MFCC run aborted", logging.Fields{"error": err.Error()})
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		logger.Warn("Parallel MFCC run cancelled", logging.Fields{"error": err.Error()})
		return nil, err
	}

	logger.Debug("Parallel MFCC run completed")
	return features, nil
}

// processFrame computes one feature vector. All scratch buffers are local.
func (p *Pipeline) processFrame(src pcm.SampleSource, start int) []float64 {
	sample := func(i int) float64 {
		return float64(src.Sample(i, 0))
	}

	frame := make([]float64, p.frameLength)
	frame[0] = p.hamming[0] * sample(start)
	for i := 1; i < p.windowLength; i++ {
		w := p.hamming[1]
		if p.cfg.WindowStrategy == WindowPerSample {
			w = p.hamming[i]
		}
		frame[i] = w * (sample(start+i) - p.cfg.PreEmphasis*sample(start+i-1))
	}

	spectrum := p.engine.Spectrum(frame)

	power := mat.NewVecDense(p.fftBins, nil)
	for k := range p.fftBins {
		re, im := real(spectrum[k]), imag(spectrum[k])
		power.SetVec(k, (re*re+im*im)/float64(p.windowLength))
	}

	lmfb := mat.NewVecDense(p.cfg.Filters, nil)
	lmfb.MulVec(p.filterbank, power)
	for i := range p.cfg.Filters {
		lmfb.SetVec(i, math.Log(math.Max(lmfb.AtVec(i), 1)))
	}

	coef := mat.NewVecDense(p.cfg.Cepstra+1, nil)
	coef.MulVec(p.dct, lmfb)

	out := make([]float64, p.cfg.Cepstra+1)
	copy(out, coef.RawVector().Data)
	return out
}
