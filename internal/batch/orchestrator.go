package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/sourcegraph/conc/pool"

	"github.com/RyanBlaney/uwave/configs"
	"github.com/RyanBlaney/uwave/pkg/audio/dft"
	"github.com/RyanBlaney/uwave/pkg/audio/mfcc"
	"github.com/RyanBlaney/uwave/pkg/audio/pcm"
	"github.com/RyanBlaney/uwave/pkg/output"
)

// Orchestrator runs batch jobs concurrently
type Orchestrator struct {
	config  *configs.Config
	engine  *dft.Engine
	logger  logging.Logger
	metrics *MetricsCalculator
}

// NewOrchestrator creates a new batch orchestrator
func NewOrchestrator(cfg *configs.Config, logger logging.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	method, err := dft.ParseMethod(cfg.DFT.Method)
	if err != nil {
		return nil, fmt.Errorf("invalid dft method: %w", err)
	}
	if cfg.Batch.MaxConcurrency <= 0 {
		return nil, fmt.Errorf("batch max concurrency must be positive, got %d", cfg.Batch.MaxConcurrency)
	}

	return &Orchestrator{
		config:  cfg,
		engine:  dft.NewEngine(method),
		logger:  logger.WithFields(logging.Fields{"component": "batch_orchestrator"}),
		metrics: NewMetricsCalculator(logger),
	}, nil
}

// Metrics returns the calculator used for batch summaries
func (o *Orchestrator) Metrics() *MetricsCalculator {
	return o.metrics
}

// Run executes jobs with at most batch.max_concurrency in flight. Results are
// returned in submission order. When batch.continue_on_error is false the
// first failure cancels the remaining jobs and is returned alongside the
// partial summary.
func (o *Orchestrator) Run(ctx context.Context, jobs []Job) (*Summary, error) {
	startTime := time.Now()

	o.logger.Debug("Starting batch run", logging.Fields{
		"jobs":              len(jobs),
		"max_concurrency":   o.config.Batch.MaxConcurrency,
		"continue_on_error": o.config.Batch.ContinueOnError,
		"timeout":           o.config.Batch.Timeout.Seconds(),
	})

	runCtx := ctx
	if o.config.Batch.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.config.Batch.Timeout)
		defer cancel()
	}

	results := make([]*JobResult, len(jobs))

	p := pool.New().
		WithMaxGoroutines(o.config.Batch.MaxConcurrency).
		WithContext(runCtx)
	if !o.config.Batch.ContinueOnError {
		p = p.WithCancelOnError().WithFirstError()
	}

	for i, job := range jobs {
		p.Go(func(ctx context.Context) error {
			result := o.runJob(ctx, job)
			results[i] = result
			if result.Error != nil && !o.config.Batch.ContinueOnError {
				return fmt.Errorf("job %q failed: %w", job.DisplayName(), result.Error)
			}
			return nil
		})
	}

	runErr := p.Wait()

	endTime := time.Now()
	summary := &Summary{
		Results:       results,
		StartTime:     startTime,
		EndTime:       endTime,
		TotalDuration: endTime.Sub(startTime),
	}
	for _, r := range results {
		if r.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	o.logger.Info("Batch run completed", logging.Fields{
		"succeeded":        summary.Succeeded,
		"failed":           summary.Failed,
		"total_duration_s": summary.TotalDuration.Seconds(),
	})

	return summary, runErr
}

// runJob executes one job; it never panics on bad input and always returns a result
func (o *Orchestrator) runJob(ctx context.Context, job Job) *JobResult {
	result := &JobResult{
		Job:       job,
		StartTime: time.Now(),
	}
	defer func() {
		result.Duration = time.Since(result.StartTime)
	}()

	logger := o.logger.WithFields(logging.Fields{
		"job":   job.DisplayName(),
		"kind":  string(job.Kind),
		"input": job.Input,
	})

	if err := ctx.Err(); err != nil {
		result.Error = err
		logger.Warn("Job skipped", logging.Fields{"reason": err.Error()})
		return result
	}

	if err := job.Validate(); err != nil {
		result.Error = err
		logger.Error(err, "Invalid job")
		return result
	}

	buf, err := pcm.Load(job.Input)
	if err != nil {
		result.Error = err
		logger.Error(err, "Failed to load input")
		return result
	}
	result.SampleRate = buf.SampleRate()
	result.Samples = buf.Len()
	result.OutputPath = o.outputPath(job)

	switch job.Kind {
	case KindAnalyze:
		result.Error = o.analyze(job, buf, result)
	case KindMFCC:
		result.Error = o.extractMFCC(ctx, buf, result)
	}

	if result.Error != nil {
		logger.Error(result.Error, "Job failed")
		return result
	}

	logger.Debug("Job completed", logging.Fields{
		"samples":     result.Samples,
		"output_path": result.OutputPath,
	})
	return result
}

func (o *Orchestrator) analyze(job Job, buf *pcm.Buffer, result *JobResult) error {
	frameSize := job.FrameSize
	if frameSize == 0 {
		frameSize = o.config.DFT.FrameSize
	}

	analysis, err := o.engine.AnalyzeBlock(buf, buf.SampleRate(), frameSize)
	if err != nil {
		return err
	}
	result.Analysis = analysis

	if result.OutputPath != "" {
		return output.SaveDFT(result.OutputPath, analysis)
	}
	return nil
}

func (o *Orchestrator) extractMFCC(ctx context.Context, buf *pcm.Buffer, result *JobResult) error {
	cfg, err := o.config.PipelineConfig(buf.SampleRate())
	if err != nil {
		return err
	}
	pipeline, err := mfcc.New(cfg)
	if err != nil {
		return err
	}

	features, err := pipeline.RunParallel(ctx, buf, buf.Len(), o.config.MFCC.Workers)
	if err != nil {
		return err
	}

	header := output.MFCCHeader{
		FrameCount:  len(features),
		FrameSize:   pipeline.WindowLength(),
		FrameStride: pipeline.FrameStride(),
		Cepstra:     cfg.Cepstra,
	}
	result.MFCC = &header

	if result.OutputPath != "" {
		return output.SaveMFCC(result.OutputPath, header, features)
	}
	return nil
}

// outputPath resolves a job's output against output.directory
func (o *Orchestrator) outputPath(job Job) string {
	if job.Output == "" || filepath.IsAbs(job.Output) || o.config.Output.Directory == "" {
		return job.Output
	}
	return filepath.Join(o.config.Output.Directory, job.Output)
}
