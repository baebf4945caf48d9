package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/uwave/pkg/audio/dft"
	"github.com/RyanBlaney/uwave/pkg/audio/pcm"
	"github.com/RyanBlaney/uwave/pkg/output"
)

var (
	analyzeFrameSize int
	analyzeMethod    string
	analyzeDFTOut    string
	analyzeReport    bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Estimate the dominant frequency of an audio file",
	Long: `Transform the first block of an audio file and report the frequency band
holding the most energy.

The block starts at sample 0 of the first channel. Blocks longer than the
file are padded with silence.

Examples:
  # Analyze with the default 1024 sample block
  uwave analyze outsine.wav

  # Larger block, radix-2 transform, spectrum dump
  uwave analyze --frame-size 4096 --method fast --dft-out outsine.dft outsine.wav

  # Print the real parts of the spectrum and the bin width
  uwave analyze --verbose outsine.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&analyzeFrameSize, "frame-size", 1024,
		"number of samples to transform")
	analyzeCmd.Flags().StringVar(&analyzeMethod, "method", "direct",
		"transform method (direct, fast)")
	analyzeCmd.Flags().StringVar(&analyzeDFTOut, "dft-out", "",
		"write the spectrum to this file")
	analyzeCmd.Flags().BoolVar(&analyzeReport, "report", false,
		"print a summary report in the --format format")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	file := args[0]
	verbose := viper.GetBool("verbose")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("frame-size") {
		cfg.DFT.FrameSize = analyzeFrameSize
	}
	if cmd.Flags().Changed("method") {
		cfg.DFT.Method = analyzeMethod
	}

	method, err := dft.ParseMethod(cfg.DFT.Method)
	if err != nil {
		return err
	}

	timer := NewPerformanceTimer()

	if verbose {
		printHeader("Spectrum Analysis", file)
		printStep(1, "Loading Audio")
	}

	timer.StartEvent("audio_loading")
	buf, err := pcm.Load(file)
	timer.EndEvent("audio_loading")
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", file, err)
	}

	if verbose {
		printSuccess("Loaded %d samples at %d Hz (%d-bit, %d channels, %v)",
			buf.Len(), buf.SampleRate(), buf.Format().BitDepth, buf.Channels(), buf.Duration())
		printStep(2, "Transform")
	}

	timer.StartEvent("transform")
	res, err := dft.NewEngine(method).AnalyzeBlock(buf, buf.SampleRate(), cfg.DFT.FrameSize)
	timer.EndEvent("transform")
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Print(formatSpectrumListing(res))
	}
	fmt.Println(res.String())

	if analyzeDFTOut != "" {
		if err := output.SaveDFT(analyzeDFTOut, res); err != nil {
			return err
		}
		if verbose {
			printSuccess("Spectrum written to %s", analyzeDFTOut)
		}
	}

	if analyzeReport {
		if err := output.WriteReport("", cfg.OutputFormat, output.AnalysisReport(file, res)); err != nil {
			return err
		}
	}

	if verbose {
		fmt.Println()
		displayPerformanceSummary(timer, "audio_loading", "transform")
	}
	return nil
}

// formatSpectrumListing renders the lower-half real parts on one line, each
// followed by ", ", then the bin width line
func formatSpectrumListing(res *dft.BlockAnalysis) string {
	var b strings.Builder
	for _, re := range res.RealParts() {
		b.WriteString(strconv.FormatFloat(re, 'g', -1, 64))
		b.WriteString(", ")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Delta Freq:   %.1f Hz\n", res.DeltaFreq)
	return b.String()
}
