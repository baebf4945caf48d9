package batch

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
)

// MetricsCalculator derives aggregate statistics from a batch summary
type MetricsCalculator struct {
	logger logging.Logger
}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator(logger logging.Logger) *MetricsCalculator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &MetricsCalculator{
		logger: logger,
	}
}

// DurationStats represents statistical measures of job processing time, in milliseconds
type DurationStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
}

// BatchMetrics summarizes a batch run
type BatchMetrics struct {
	SuccessRate       float64                   `json:"success_rate"`
	ProcessingTime    *DurationStats            `json:"processing_time"`
	ByKind            map[string]*DurationStats `json:"by_kind"`
	ErrorDistribution map[string]int            `json:"error_distribution"`
	SamplesProcessed  int                       `json:"samples_processed"`
}

// CalculateBatchMetrics computes processing time statistics and error categories
func (mc *MetricsCalculator) CalculateBatchMetrics(summary *Summary) *BatchMetrics {
	metrics := &BatchMetrics{
		ByKind:            make(map[string]*DurationStats),
		ErrorDistribution: make(map[string]int),
	}
	if summary == nil || len(summary.Results) == 0 {
		metrics.ProcessingTime = mc.calculateStats(nil)
		return metrics
	}

	var all []float64
	byKind := make(map[string][]float64)
	for _, r := range summary.Results {
		if r == nil {
			continue
		}
		if !r.Succeeded() {
			metrics.ErrorDistribution[mc.categorizeError(r.Error)]++
			continue
		}
		ms := float64(r.Duration.Microseconds()) / 1000
		all = append(all, ms)
		byKind[string(r.Job.Kind)] = append(byKind[string(r.Job.Kind)], ms)
		metrics.SamplesProcessed += r.Samples
	}

	metrics.SuccessRate = float64(summary.Succeeded) / float64(len(summary.Results))
	metrics.ProcessingTime = mc.calculateStats(all)
	for kind, data := range byKind {
		metrics.ByKind[kind] = mc.calculateStats(data)
	}

	mc.logger.Debug("Batch metrics calculated", logging.Fields{
		"success_rate": metrics.SuccessRate,
		"error_kinds":  len(metrics.ErrorDistribution),
	})

	return metrics
}

// calculateStats calculates statistical measures for a dataset
func (mc *MetricsCalculator) calculateStats(data []float64) *DurationStats {
	if len(data) == 0 {
		return &DurationStats{Count: 0}
	}

	sorted := slices.Clone(data)
	slices.Sort(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	stats := &DurationStats{
		Count:  len(data),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: mc.percentile(sorted, 50),
		P95:    mc.percentile(sorted, 95),
		Mean:   mean,
		StdDev: std,
	}

	if math.IsNaN(stats.StdDev) {
		stats.StdDev = 0
	}
	return stats
}

// percentile linearly interpolates the p-th percentile of sorted data
func (mc *MetricsCalculator) percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// categorizeError maps an error to a coarse category, preferring analysis error codes
func (mc *MetricsCalculator) categorizeError(err error) string {
	if err == nil {
		return "none"
	}

	var ae *common.AnalysisError
	if errors.As(err, &ae) {
		switch ae.Code {
		case common.ErrCodeIO:
			return "io"
		case common.ErrCodeDecoding, common.ErrCodeUnsupportedFormat:
			return "format"
		case common.ErrCodeConfiguration:
			return "configuration"
		case common.ErrCodeInvalidInput:
			return "input"
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "cancelled"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "config"), strings.Contains(msg, "invalid"):
		return "configuration"
	case strings.Contains(msg, "decode"), strings.Contains(msg, "format"):
		return "format"
	}
	return "other"
}
