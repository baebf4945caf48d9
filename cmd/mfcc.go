package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/uwave/pkg/audio/mfcc"
	"github.com/RyanBlaney/uwave/pkg/audio/pcm"
	"github.com/RyanBlaney/uwave/pkg/output"
)

var (
	mfccOut            string
	mfccWorkers        int
	mfccWindowStrategy string
	mfccMethod         string
	mfccCepstra        int
	mfccFilters        int
	mfccReport         bool
)

// mfccCmd represents the mfcc command
var mfccCmd = &cobra.Command{
	Use:   "mfcc [file]",
	Short: "Extract MFCC features from an audio file",
	Long: `Frame the first channel of an audio file and compute mel frequency
cepstral coefficients for every frame.

Frames are processed concurrently; output order always matches frame order.

Examples:
  # Extract with the default 25 ms / 10 ms, 40 filter, 12 cepstra setup
  uwave mfcc --out speech.mfcc speech.wav

  # Per-sample Hamming window and the radix-2 transform on 8 workers
  uwave mfcc --window-strategy per-sample --method fast --workers 8 --out speech.mfcc speech.wav

  # Print a report with per-coefficient means
  uwave mfcc --report --format yaml speech.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runMFCC,
}

func init() {
	rootCmd.AddCommand(mfccCmd)

	mfccCmd.Flags().StringVar(&mfccOut, "out", "",
		"write features to this file")
	mfccCmd.Flags().IntVar(&mfccWorkers, "workers", 0,
		"frame workers (0 uses GOMAXPROCS)")
	mfccCmd.Flags().StringVar(&mfccWindowStrategy, "window-strategy", "parity",
		"Hamming window strategy (parity, per-sample)")
	mfccCmd.Flags().StringVar(&mfccMethod, "method", "direct",
		"transform method (direct, fast)")
	mfccCmd.Flags().IntVar(&mfccCepstra, "cepstra", 12,
		"number of cepstral coefficients after c0")
	mfccCmd.Flags().IntVar(&mfccFilters, "filters", 40,
		"number of mel filters")
	mfccCmd.Flags().BoolVar(&mfccReport, "report", false,
		"print a summary report in the --format format")
}

func runMFCC(cmd *cobra.Command, args []string) error {
	file := args[0]
	verbose := viper.GetBool("verbose")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.MFCC.Workers = mfccWorkers
	}
	if flags.Changed("window-strategy") {
		cfg.MFCC.WindowStrategy = mfccWindowStrategy
	}
	if flags.Changed("method") {
		cfg.MFCC.TransformMethod = mfccMethod
	}
	if flags.Changed("cepstra") {
		cfg.MFCC.Cepstra = mfccCepstra
	}
	if flags.Changed("filters") {
		cfg.MFCC.Filters = mfccFilters
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	timer := NewPerformanceTimer()

	if verbose {
		printHeader("MFCC Extraction", file)
		printStep(1, "Loading Audio")
	}

	timer.StartEvent("audio_loading")
	buf, err := pcm.Load(file)
	timer.EndEvent("audio_loading")
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", file, err)
	}

	pipelineConfig, err := cfg.PipelineConfig(buf.SampleRate())
	if err != nil {
		return err
	}

	timer.StartEvent("table_setup")
	pipeline, err := mfcc.New(pipelineConfig)
	timer.EndEvent("table_setup")
	if err != nil {
		return err
	}

	if verbose {
		printSuccess("Loaded %d samples at %d Hz (%v)", buf.Len(), buf.SampleRate(), buf.Duration())
		printStep(2, "Feature Extraction")
		printInfo("Window: %d samples, stride %d, %d-point transform (%s)",
			pipeline.WindowLength(), pipeline.FrameStride(), pipeline.FrameBufferLength(), pipelineConfig.TransformMethod)
		printInfo("Filters: %d, cepstra: %d, window strategy: %s",
			pipelineConfig.Filters, pipeline.Cepstra(), pipelineConfig.WindowStrategy)
	}

	timer.StartEvent("extraction")
	features, err := pipeline.RunParallel(ctx, buf, buf.Len(), cfg.MFCC.Workers)
	timer.EndEvent("extraction")
	if err != nil {
		return fmt.Errorf("feature extraction failed: %w", err)
	}

	header := output.MFCCHeader{
		FrameCount:  len(features),
		FrameSize:   pipeline.WindowLength(),
		FrameStride: pipeline.FrameStride(),
		Cepstra:     pipelineConfig.Cepstra,
	}

	if mfccOut != "" {
		if err := output.SaveMFCC(mfccOut, header, features); err != nil {
			return err
		}
	}

	if mfccReport {
		if err := output.WriteReport("", cfg.OutputFormat, output.MFCCReport(file, header, features)); err != nil {
			return err
		}
	} else if mfccOut == "" || verbose {
		printSuccess("Extracted %d frames of %d coefficients", header.FrameCount, pipeline.Cepstra())
		if mfccOut != "" {
			printSuccess("Features written to %s", mfccOut)
		}
	}

	if verbose {
		fmt.Println()
		displayPerformanceSummary(timer, "audio_loading", "table_setup", "extraction")
	}
	return nil
}
