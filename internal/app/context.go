package app

import (
	"context"
	"fmt"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/tunein/go-logging/v7/pkg/rootcollector"

	"github.com/RyanBlaney/uwave/configs"
	"github.com/RyanBlaney/uwave/internal/batch"
	"github.com/RyanBlaney/uwave/pkg/output"
)

// Context holds the batch command's arguments and runtime state
type Context struct {
	// CLI arguments
	JobFile          string // Batch job file (required)
	OutputFile       string // Summary report destination; stdout when empty
	OutputFormat     string
	Timeout          time.Duration
	MaxConcurrent    int
	StopOnError      bool
	DetailedAnalysis bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
	Jobs   *batch.JobFile
}

// BatchApp handles the batch application lifecycle
type BatchApp struct {
	ctx    *Context
	config *configs.Config
	jobs   *batch.JobFile
	logger logging.Logger
}

// NewBatchApp creates a new batch application. A nil ctx.Config is loaded from
// viper; CLI overrides in ctx take precedence over it.
func NewBatchApp(ctx *Context) (*BatchApp, error) {
	if ctx.Logger == nil {
		ctx.Logger = logging.NewDefaultLogger()
	}
	logger := ctx.Logger.WithFields(logging.Fields{"component": "batch_app"})

	config, err := loadAndMergeConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	if ctx.JobFile == "" {
		return nil, fmt.Errorf("job file is required")
	}
	jobs, err := LoadJobFile(ctx.JobFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load job file: %w", err)
	}
	ctx.Jobs = jobs

	logger.Debug("Batch application initialized", logging.Fields{
		"job_file":        ctx.JobFile,
		"output_format":   config.OutputFormat,
		"timeout":         config.Batch.Timeout.Seconds(),
		"max_concurrency": config.Batch.MaxConcurrency,
		"enabled_jobs":    len(jobs.EnabledJobs()),
	})

	return &BatchApp{
		ctx:    ctx,
		config: config,
		jobs:   jobs,
		logger: logger,
	}, nil
}

// Run executes every enabled job, writes the summary report and returns the
// summary. An error is returned when the orchestrator stopped on a failure
// or when every job failed.
func (app *BatchApp) Run(ctx context.Context) (*batch.Summary, error) {
	jobs := app.jobs.EnabledJobs()
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no enabled jobs in %s", app.ctx.JobFile)
	}

	orchestrator, err := batch.NewOrchestrator(app.config, app.ctx.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch orchestrator: %w", err)
	}

	summary, runErr := orchestrator.Run(ctx, jobs)

	metrics := orchestrator.Metrics().CalculateBatchMetrics(summary)

	if err := app.outputResults(summary, metrics); err != nil {
		return summary, fmt.Errorf("failed to output results: %w", err)
	}

	if app.config.Output.EmitMetrics {
		app.collectMetrics(summary)
	}

	if runErr != nil {
		return summary, fmt.Errorf("batch execution failed: %w", runErr)
	}
	if summary.Failed > 0 && summary.Succeeded == 0 {
		return summary, fmt.Errorf("all %d jobs failed", summary.Failed)
	}

	return summary, nil
}

// loadAndMergeConfig resolves the base configuration and applies CLI overrides
func loadAndMergeConfig(ctx *Context) (*configs.Config, error) {
	config := ctx.Config
	if config == nil {
		loaded, err := configs.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load base configuration: %w", err)
		}
		config = loaded
	}

	merged := *config
	if ctx.OutputFormat != "" {
		merged.OutputFormat = ctx.OutputFormat
	}
	if ctx.Timeout > 0 {
		merged.Batch.Timeout = ctx.Timeout
	}
	if ctx.MaxConcurrent > 0 {
		merged.Batch.MaxConcurrency = ctx.MaxConcurrent
	}
	if ctx.StopOnError {
		merged.Batch.ContinueOnError = false
	}

	if err := configs.ValidateConfig(&merged); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &merged, nil
}

// outputResults formats the summary and writes it to the report destination
func (app *BatchApp) outputResults(summary *batch.Summary, metrics *batch.BatchMetrics) error {
	outputData := map[string]any{
		"batch_summary": cleanBatchSummary(summary, app.ctx.DetailedAnalysis || app.config.Verbose),
		"timestamp":     time.Now(),
		"configuration": map[string]any{
			"job_file":          app.ctx.JobFile,
			"timeout":           app.config.Batch.Timeout.Seconds(),
			"max_concurrency":   app.config.Batch.MaxConcurrency,
			"continue_on_error": app.config.Batch.ContinueOnError,
			"dft_method":        app.config.DFT.Method,
			"window_strategy":   app.config.MFCC.WindowStrategy,
		},
		"batch_metrics": metrics,
	}

	return output.WriteReport(app.ctx.OutputFile, app.config.OutputFormat, outputData)
}

// collectMetrics sends per-job and batch totals to rootcollector
func (app *BatchApp) collectMetrics(summary *batch.Summary) {
	if summary == nil {
		return
	}

	prefix := app.config.Output.MetricsPrefix
	for _, result := range summary.Results {
		if result == nil {
			continue
		}

		status := "success"
		if !result.Succeeded() {
			status = "failure"
		}
		tags := []string{
			"job:" + result.Job.DisplayName(),
			"kind:" + string(result.Job.Kind),
			"status:" + status,
		}

		rootcollector.Metric(prefix+".job.duration.milliseconds", result.Duration.Milliseconds(), tags)
		if result.Samples > 0 {
			rootcollector.Metric(prefix+".job.samples", int64(result.Samples), tags)
		}
	}

	rootcollector.Metric(prefix+".batch.succeeded", int64(summary.Succeeded), nil)
	rootcollector.Metric(prefix+".batch.failed", int64(summary.Failed), nil)
	rootcollector.Metric(prefix+".batch.duration.milliseconds", summary.TotalDuration.Milliseconds(), nil)

	app.logger.Debug("Batch metrics sent", logging.Fields{
		"prefix": prefix,
		"jobs":   len(summary.Results),
	})
}

// cleanBatchSummary flattens the summary for report output, dropping the
// spectrum data carried by analysis results
func cleanBatchSummary(summary *batch.Summary, detailed bool) map[string]any {
	if summary == nil {
		return map[string]any{}
	}

	results := make([]map[string]any, 0, len(summary.Results))
	for _, result := range summary.Results {
		if result == nil {
			continue
		}
		results = append(results, cleanJobResult(result, detailed))
	}

	return map[string]any{
		"start_time":     summary.StartTime,
		"end_time":       summary.EndTime,
		"total_duration": summary.TotalDuration.Seconds(),
		"succeeded":      summary.Succeeded,
		"failed":         summary.Failed,
		"results":        results,
	}
}

func cleanJobResult(result *batch.JobResult, detailed bool) map[string]any {
	clean := map[string]any{
		"name":        result.Job.DisplayName(),
		"kind":        string(result.Job.Kind),
		"input":       result.Job.Input,
		"duration_ms": result.Duration.Milliseconds(),
		"succeeded":   result.Succeeded(),
	}
	if result.OutputPath != "" {
		clean["output_path"] = result.OutputPath
	}
	if result.Error != nil {
		clean["error"] = result.Error.Error()
	}

	if result.Analysis != nil {
		clean["primary_freq_low"] = result.Analysis.LowFreq
		clean["primary_freq_high"] = result.Analysis.HighFreq
		if detailed {
			clean["delta_freq"] = result.Analysis.DeltaFreq
			clean["dominant_bin"] = result.Analysis.DominantBin
			clean["frame_size"] = result.Analysis.FrameSize
			clean["method"] = result.Analysis.Method
		}
	}
	if result.MFCC != nil {
		clean["frame_count"] = result.MFCC.FrameCount
		if detailed {
			clean["frame_size"] = result.MFCC.FrameSize
			clean["frame_stride"] = result.MFCC.FrameStride
			clean["cepstra"] = result.MFCC.Cepstra
		}
	}
	if detailed {
		clean["sample_rate"] = result.SampleRate
		clean["samples"] = result.Samples
		clean["start_time"] = result.StartTime
	}

	return clean
}
