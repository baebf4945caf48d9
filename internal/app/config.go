package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/uwave/internal/batch"
)

// LoadJobFile loads a batch job file. The format is chosen by extension;
// unknown extensions are tried as YAML and then JSON. Relative inputs are
// resolved against the job file's directory.
func LoadJobFile(filePath string) (*batch.JobFile, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("job file does not exist: %s", filePath)
	}

	var (
		jobs *batch.JobFile
		err  error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		jobs, err = loadJobFileFromYAML(filePath)
	case ".json":
		jobs, err = loadJobFileFromJSON(filePath)
	default:
		if jobs, err = loadJobFileFromYAML(filePath); err != nil {
			jobs, err = loadJobFileFromJSON(filePath)
		}
	}
	if err != nil {
		return nil, err
	}

	resolveJobPaths(jobs, filepath.Dir(filePath))

	if err := jobs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job file: %w", err)
	}
	return jobs, nil
}

// loadJobFileFromYAML loads a job file from YAML
func loadJobFileFromYAML(filePath string) (*batch.JobFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open YAML job file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML job file: %w", err)
	}

	var jobs batch.JobFile
	if err := yaml.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse YAML job file: %w", err)
	}

	return &jobs, nil
}

// loadJobFileFromJSON loads a job file from JSON
func loadJobFileFromJSON(filePath string) (*batch.JobFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON job file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON job file: %w", err)
	}

	var jobs batch.JobFile
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse JSON job file: %w", err)
	}

	return &jobs, nil
}

func resolveJobPaths(jobs *batch.JobFile, baseDir string) {
	for i := range jobs.Jobs {
		job := &jobs.Jobs[i]
		if job.Input != "" && !filepath.IsAbs(job.Input) {
			job.Input = filepath.Join(baseDir, job.Input)
		}
	}
}

// ExampleJobFile returns a job file showing every supported field
func ExampleJobFile() *batch.JobFile {
	disabled := false
	return &batch.JobFile{
		Jobs: []batch.Job{
			{
				Name:      "a4-tone",
				Input:     "samples/outsine.wav",
				Kind:      batch.KindAnalyze,
				FrameSize: 1024,
				Output:    "results/outsine.dft",
			},
			{
				Name:   "speech-features",
				Input:  "samples/speech.wav",
				Kind:   batch.KindMFCC,
				Output: "results/speech.mfcc",
			},
			{
				Name:    "archived",
				Input:   "samples/archive.flac",
				Kind:    batch.KindMFCC,
				Enabled: &disabled,
			},
		},
	}
}

// WriteExampleJobFile writes ExampleJobFile as YAML
func WriteExampleJobFile(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ExampleJobFile()); err != nil {
		return fmt.Errorf("failed to encode example job file: %w", err)
	}
	return enc.Close()
}
