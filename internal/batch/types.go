package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/uwave/pkg/audio/dft"
	"github.com/RyanBlaney/uwave/pkg/output"
)

// JobKind selects what a batch job computes
type JobKind string

const (
	KindAnalyze JobKind = "analyze"
	KindMFCC    JobKind = "mfcc"
)

// Job is a single entry of a batch job file
type Job struct {
	Name      string  `yaml:"name" json:"name"`
	Input     string  `yaml:"input" json:"input"`
	Kind      JobKind `yaml:"kind" json:"kind"`
	FrameSize int     `yaml:"frame_size,omitempty" json:"frame_size,omitempty"`
	Output    string  `yaml:"output,omitempty" json:"output,omitempty"`
	Enabled   *bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// JobFile is the top level document of a batch job file
type JobFile struct {
	Jobs []Job `yaml:"jobs" json:"jobs"`
}

// IsEnabled reports whether the job should run. Jobs are enabled unless
// explicitly disabled.
func (j Job) IsEnabled() bool {
	return j.Enabled == nil || *j.Enabled
}

// DisplayName returns the job name, falling back to the input file's base name
func (j Job) DisplayName() string {
	if j.Name != "" {
		return j.Name
	}
	return strings.TrimSuffix(filepath.Base(j.Input), filepath.Ext(j.Input))
}

// Validate checks a single job
func (j Job) Validate() error {
	if j.Input == "" {
		return fmt.Errorf("job %q: input is required", j.DisplayName())
	}
	switch j.Kind {
	case KindAnalyze:
		if j.FrameSize != 0 && j.FrameSize < dft.MinFrameSize {
			return fmt.Errorf("job %q: frame size must be at least %d", j.DisplayName(), dft.MinFrameSize)
		}
	case KindMFCC:
	default:
		return fmt.Errorf("job %q: unknown kind %q (expected analyze or mfcc)", j.DisplayName(), j.Kind)
	}
	return nil
}

// Validate checks every job and rejects duplicate names
func (f *JobFile) Validate() error {
	if len(f.Jobs) == 0 {
		return fmt.Errorf("job file contains no jobs")
	}

	seen := make(map[string]bool, len(f.Jobs))
	for _, job := range f.Jobs {
		if err := job.Validate(); err != nil {
			return err
		}
		name := job.DisplayName()
		if seen[name] {
			return fmt.Errorf("duplicate job name %q", name)
		}
		seen[name] = true
	}
	return nil
}

// EnabledJobs returns the jobs that should run, in file order
func (f *JobFile) EnabledJobs() []Job {
	jobs := make([]Job, 0, len(f.Jobs))
	for _, job := range f.Jobs {
		if job.IsEnabled() {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// JobResult holds the outcome of one job
type JobResult struct {
	Job        Job                `json:"job"`
	Analysis   *dft.BlockAnalysis `json:"analysis,omitempty"`
	MFCC       *output.MFCCHeader `json:"mfcc,omitempty"`
	SampleRate int                `json:"sample_rate"`
	Samples    int                `json:"samples"`
	OutputPath string             `json:"output_path,omitempty"`
	StartTime  time.Time          `json:"start_time"`
	Duration   time.Duration      `json:"duration"`
	Error      error              `json:"-"`
}

// Succeeded reports whether the job completed without error
func (r *JobResult) Succeeded() bool {
	return r.Error == nil
}

// Summary collects every job result in submission order
type Summary struct {
	Results       []*JobResult  `json:"results"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	TotalDuration time.Duration `json:"total_duration"`
	Succeeded     int           `json:"succeeded"`
	Failed        int           `json:"failed"`
}
