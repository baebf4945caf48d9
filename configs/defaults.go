package configs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for any key not already set
func SetDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()

	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("log_file") {
		v.Set("log_file", "")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "table")
	}
	if !v.IsSet("config_dir") {
		v.Set("config_dir", filepath.Join(home, ".config", "uwave"))
	}
	if !v.IsSet("data_dir") {
		v.Set("data_dir", filepath.Join(home, ".local", "share", "uwave"))
	}

	// Audio defaults
	if !v.IsSet("audio.sample_rate") {
		v.Set("audio.sample_rate", 44100)
	}
	if !v.IsSet("audio.bit_depth") {
		v.Set("audio.bit_depth", 16)
	}

	// DFT defaults
	if !v.IsSet("dft.frame_size") {
		v.Set("dft.frame_size", 1024)
	}
	if !v.IsSet("dft.method") {
		v.Set("dft.method", "direct")
	}

	setMFCCDefaults(v)

	// Waveform generation defaults
	if !v.IsSet("generate.waveform") {
		v.Set("generate.waveform", "sine")
	}
	if !v.IsSet("generate.frequency") {
		v.Set("generate.frequency", 440.0)
	}
	if !v.IsSet("generate.duration") {
		v.Set("generate.duration", time.Second)
	}
	if !v.IsSet("generate.seed") {
		v.Set("generate.seed", 0)
	}

	// Batch defaults
	if !v.IsSet("batch.max_concurrency") {
		v.Set("batch.max_concurrency", 4)
	}
	if !v.IsSet("batch.timeout") {
		v.Set("batch.timeout", 10*time.Minute)
	}
	if !v.IsSet("batch.continue_on_error") {
		v.Set("batch.continue_on_error", true)
	}

	// Output defaults
	if !v.IsSet("output.directory") {
		v.Set("output.directory", "")
	}
	if !v.IsSet("output.emit_metrics") {
		v.Set("output.emit_metrics", false)
	}
	if !v.IsSet("output.metrics_prefix") {
		v.Set("output.metrics_prefix", "uwave")
	}
}

func setMFCCDefaults(v *viper.Viper) {
	if !v.IsSet("mfcc.window_length_ms") {
		v.Set("mfcc.window_length_ms", 25)
	}
	if !v.IsSet("mfcc.frame_stride_ms") {
		v.Set("mfcc.frame_stride_ms", 10)
	}
	if !v.IsSet("mfcc.cepstra") {
		v.Set("mfcc.cepstra", 12)
	}
	if !v.IsSet("mfcc.filters") {
		v.Set("mfcc.filters", 40)
	}
	if !v.IsSet("mfcc.pre_emphasis") {
		v.Set("mfcc.pre_emphasis", 0.97)
	}
	if !v.IsSet("mfcc.low_freq") {
		v.Set("mfcc.low_freq", 50.0)
	}
	if !v.IsSet("mfcc.high_freq") {
		v.Set("mfcc.high_freq", 5500.0)
	}
	if !v.IsSet("mfcc.nfft") {
		v.Set("mfcc.nfft", 0)
	}
	if !v.IsSet("mfcc.window_strategy") {
		v.Set("mfcc.window_strategy", "parity")
	}
	if !v.IsSet("mfcc.transform_method") {
		v.Set("mfcc.transform_method", "direct")
	}
	if !v.IsSet("mfcc.workers") {
		v.Set("mfcc.workers", 0)
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "table",
		ConfigDir:    filepath.Join(home, ".config", "uwave"),
		DataDir:      filepath.Join(home, ".local", "share", "uwave"),

		Audio:    GetDefaultAudioConfig(),
		DFT:      GetDefaultDFTConfig(),
		MFCC:     GetDefaultMFCCConfig(),
		Generate: GetDefaultGenerateConfig(),
		Batch:    GetDefaultBatchConfig(),
		Output:   GetDefaultOutputConfig(),
	}
}

// GetDefaultAudioConfig returns CD-rate 16-bit settings
func GetDefaultAudioConfig() AudioConfig {
	return AudioConfig{
		SampleRate: 44100,
		BitDepth:   16,
	}
}

// GetDefaultDFTConfig returns default single block analysis settings
func GetDefaultDFTConfig() DFTConfig {
	return DFTConfig{
		FrameSize: 1024,
		Method:    "direct",
	}
}

// GetDefaultMFCCConfig returns the 25 ms / 10 ms, 40 filter, 12 cepstra setup
func GetDefaultMFCCConfig() MFCCConfig {
	return MFCCConfig{
		WindowLengthMs:  25,
		FrameStrideMs:   10,
		Cepstra:         12,
		Filters:         40,
		PreEmphasis:     0.97,
		LowFreq:         50,
		HighFreq:        5500,
		WindowStrategy:  "parity",
		TransformMethod: "direct",
	}
}

// GetDefaultGenerateConfig returns a one second A4 sine
func GetDefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Waveform:  "sine",
		Frequency: 440,
		Duration:  time.Second,
	}
}

// GetDefaultBatchConfig returns default batch runner settings
func GetDefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrency:  4,
		Timeout:         10 * time.Minute,
		ContinueOnError: true,
	}
}

// GetDefaultOutputConfig returns default output settings
func GetDefaultOutputConfig() OutputConfig {
	return OutputConfig{
		MetricsPrefix: "uwave",
	}
}

// SpeechMFCCConfig returns the corrected per-sample window with the fast
// transform, for callers that do not need reference-identical output
func SpeechMFCCConfig() MFCCConfig {
	cfg := GetDefaultMFCCConfig()
	cfg.WindowStrategy = "per-sample"
	cfg.TransformMethod = "fast"
	return cfg
}
