package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/uwave/pkg/audio/dft"
	"github.com/RyanBlaney/uwave/pkg/audio/mfcc"
	"github.com/RyanBlaney/uwave/pkg/audio/pcm"
	"github.com/RyanBlaney/uwave/pkg/audio/waveform"
	"github.com/RyanBlaney/uwave/pkg/output"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFile      string `mapstructure:"log_file" yaml:"log_file"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	ConfigDir    string `mapstructure:"config_dir" yaml:"config_dir"`
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`

	Audio    AudioConfig    `mapstructure:"audio" yaml:"audio"`
	DFT      DFTConfig      `mapstructure:"dft" yaml:"dft"`
	MFCC     MFCCConfig     `mapstructure:"mfcc" yaml:"mfcc"`
	Generate GenerateConfig `mapstructure:"generate" yaml:"generate"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
}

// AudioConfig contains sample format settings used when synthesizing audio
type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate" yaml:"sample_rate"`
	BitDepth   int `mapstructure:"bit_depth" yaml:"bit_depth"`
}

// DFTConfig contains single block analysis settings
type DFTConfig struct {
	FrameSize int    `mapstructure:"frame_size" yaml:"frame_size"`
	Method    string `mapstructure:"method" yaml:"method"`
}

// MFCCConfig contains cepstral pipeline settings. Nfft of zero selects
// 512 above 20 kHz and 2048 otherwise.
type MFCCConfig struct {
	WindowLengthMs  int     `mapstructure:"window_length_ms" yaml:"window_length_ms"`
	FrameStrideMs   int     `mapstructure:"frame_stride_ms" yaml:"frame_stride_ms"`
	Cepstra         int     `mapstructure:"cepstra" yaml:"cepstra"`
	Filters         int     `mapstructure:"filters" yaml:"filters"`
	PreEmphasis     float64 `mapstructure:"pre_emphasis" yaml:"pre_emphasis"`
	LowFreq         float64 `mapstructure:"low_freq" yaml:"low_freq"`
	HighFreq        float64 `mapstructure:"high_freq" yaml:"high_freq"`
	Nfft            int     `mapstructure:"nfft" yaml:"nfft"`
	WindowStrategy  string  `mapstructure:"window_strategy" yaml:"window_strategy"`
	TransformMethod string  `mapstructure:"transform_method" yaml:"transform_method"`
	Workers         int     `mapstructure:"workers" yaml:"workers"`
}

// GenerateConfig contains waveform synthesis defaults
type GenerateConfig struct {
	Waveform  string        `mapstructure:"waveform" yaml:"waveform"`
	Frequency float64       `mapstructure:"frequency" yaml:"frequency"`
	Duration  time.Duration `mapstructure:"duration" yaml:"duration"`
	Seed      uint64        `mapstructure:"seed" yaml:"seed"`
}

// BatchConfig contains batch runner settings
type BatchConfig struct {
	MaxConcurrency  int           `mapstructure:"max_concurrency" yaml:"max_concurrency"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ContinueOnError bool          `mapstructure:"continue_on_error" yaml:"continue_on_error"`
}

// OutputConfig contains result output settings
type OutputConfig struct {
	Directory     string `mapstructure:"directory" yaml:"directory"`
	EmitMetrics   bool   `mapstructure:"emit_metrics" yaml:"emit_metrics"`
	MetricsPrefix string `mapstructure:"metrics_prefix" yaml:"metrics_prefix"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom decodes the configuration held by v
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	config := &Config{}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}

	if _, err := output.NewFormatter(config.OutputFormat); err != nil {
		return err
	}

	if config.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate must be positive")
	}
	if _, err := pcm.FormatForBitDepth(config.Audio.BitDepth); err != nil {
		return err
	}

	if config.DFT.FrameSize < dft.MinFrameSize {
		return fmt.Errorf("dft frame size must be at least %d", dft.MinFrameSize)
	}
	if _, err := dft.ParseMethod(config.DFT.Method); err != nil {
		return err
	}

	if _, err := config.PipelineConfig(config.Audio.SampleRate); err != nil {
		return err
	}
	if config.MFCC.Workers < 0 {
		return fmt.Errorf("mfcc workers cannot be negative")
	}

	if _, err := waveform.ParseType(config.Generate.Waveform); err != nil {
		return err
	}
	if config.Generate.Duration <= 0 {
		return fmt.Errorf("generate duration must be positive")
	}

	if config.Batch.MaxConcurrency <= 0 {
		return fmt.Errorf("batch max concurrency must be positive")
	}
	if config.Batch.Timeout < 0 {
		return fmt.Errorf("batch timeout cannot be negative")
	}

	return nil
}

// PipelineConfig builds and validates an MFCC pipeline configuration for audio
// sampled at sampleRate
func (c *Config) PipelineConfig(sampleRate int) (mfcc.Config, error) {
	cfg := mfcc.DefaultConfig(sampleRate)

	cfg.WindowLengthMs = c.MFCC.WindowLengthMs
	cfg.FrameStrideMs = c.MFCC.FrameStrideMs
	cfg.Cepstra = c.MFCC.Cepstra
	cfg.Filters = c.MFCC.Filters
	cfg.PreEmphasis = c.MFCC.PreEmphasis
	cfg.LowFreq = c.MFCC.LowFreq
	cfg.HighFreq = c.MFCC.HighFreq
	if c.MFCC.Nfft > 0 {
		cfg.Nfft = c.MFCC.Nfft
	}

	strategy, err := mfcc.ParseWindowStrategy(c.MFCC.WindowStrategy)
	if err != nil {
		return cfg, err
	}
	cfg.WindowStrategy = strategy

	method, err := dft.ParseMethod(c.MFCC.TransformMethod)
	if err != nil {
		return cfg, err
	}
	cfg.TransformMethod = method

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// GenerateParams builds waveform parameters from the generate and audio sections
func (c *Config) GenerateParams() (waveform.Params, error) {
	typ, err := waveform.ParseType(c.Generate.Waveform)
	if err != nil {
		return waveform.Params{}, err
	}

	return waveform.Params{
		Type:       typ,
		SampleRate: c.Audio.SampleRate,
		Frequency:  c.Generate.Frequency,
		Duration:   c.Generate.Duration,
		BitDepth:   c.Audio.BitDepth,
		Seed:       c.Generate.Seed,
	}, nil
}
