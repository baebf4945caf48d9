package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/uwave/internal/batch"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJobFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jobs.yaml", `
jobs:
  - name: tone
    input: audio/tone.wav
    kind: analyze
    frame_size: 2048
    output: tone.dft
  - input: /abs/speech.flac
    kind: mfcc
    enabled: false
`)

	jobs, err := LoadJobFile(path)
	require.NoError(t, err)
	require.Len(t, jobs.Jobs, 2)

	assert.Equal(t, "tone", jobs.Jobs[0].Name)
	assert.Equal(t, filepath.Join(dir, "audio", "tone.wav"), jobs.Jobs[0].Input)
	assert.Equal(t, batch.KindAnalyze, jobs.Jobs[0].Kind)
	assert.Equal(t, 2048, jobs.Jobs[0].FrameSize)
	assert.Equal(t, "tone.dft", jobs.Jobs[0].Output)

	assert.Equal(t, "/abs/speech.flac", jobs.Jobs[1].Input)
	assert.False(t, jobs.Jobs[1].IsEnabled())
	assert.Len(t, jobs.EnabledJobs(), 1)
}

func TestLoadJobFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jobs.json", `{"jobs": [{"name": "a", "input": "a.wav", "kind": "mfcc"}]}`)

	jobs, err := LoadJobFile(path)
	require.NoError(t, err)
	require.Len(t, jobs.Jobs, 1)
	assert.Equal(t, batch.KindMFCC, jobs.Jobs[0].Kind)
	assert.Equal(t, filepath.Join(dir, "a.wav"), jobs.Jobs[0].Input)
}

func TestLoadJobFileExtensionIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()

	yamlPath := writeFile(t, dir, "jobs.YAML", "jobs:\n  - input: x.wav\n    kind: analyze\n")
	jobs, err := LoadJobFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, jobs.Jobs, 1)

	// a malformed .JSON file must report the JSON parser, not fall back to YAML
	badJSON := writeFile(t, dir, "bad.JSON", "{")
	_, err = LoadJobFile(badJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
}

func TestLoadJobFileUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jobs.batch", "jobs:\n  - input: x.wav\n    kind: analyze\n")

	jobs, err := LoadJobFile(path)
	require.NoError(t, err)
	assert.Len(t, jobs.Jobs, 1)
}

func TestLoadJobFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"malformed yaml", "bad.yaml", "jobs: [", "failed to parse YAML"},
		{"malformed json", "bad.json", "{", "failed to parse JSON"},
		{"no jobs", "empty.yaml", "jobs: []\n", "no jobs"},
		{"unknown kind", "kind.yaml", "jobs:\n  - input: a.wav\n    kind: fingerprint\n", "unknown kind"},
		{"duplicate names", "dup.yaml", "jobs:\n  - input: a/x.wav\n    kind: mfcc\n  - input: b/x.wav\n    kind: mfcc\n", "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := LoadJobFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadJobFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestExampleJobFileLoads(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExampleJobFile(&buf))
	assert.Contains(t, buf.String(), "kind: analyze")
	assert.Contains(t, buf.String(), "enabled: false")

	dir := t.TempDir()
	path := writeFile(t, dir, "example.yaml", buf.String())

	jobs, err := LoadJobFile(path)
	require.NoError(t, err)
	assert.Len(t, jobs.Jobs, len(ExampleJobFile().Jobs))
	assert.Len(t, jobs.EnabledJobs(), 2)
	assert.Equal(t, filepath.Join(dir, "samples", "outsine.wav"), jobs.Jobs[0].Input)
}
