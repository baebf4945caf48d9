package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/uwave/internal/app"
)

var (
	batchReport        string
	batchTimeout       time.Duration
	batchMaxConcurrent int
	batchStopOnError   bool
	batchDetailed      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [jobs.yaml]",
	Short: "Run analyze and mfcc jobs from a job file",
	Long: `Run every enabled job of a YAML or JSON job file concurrently and report
a summary with processing time statistics.

Relative inputs are resolved against the job file's directory. Relative
outputs are written under output.directory when it is set.

Examples:
  # Run jobs and print a table summary
  uwave batch jobs.yaml

  # JSON report to a file, stop on the first failure
  uwave batch --format json --report results/summary.json --stop-on-error jobs.yaml

  # Write an example job file
  uwave config example > jobs.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchReport, "report", "",
		"write the summary report to this file instead of stdout")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0,
		"timeout for the whole batch (default batch.timeout)")
	batchCmd.Flags().IntVar(&batchMaxConcurrent, "max-concurrent", 0,
		"maximum jobs in flight (default batch.max_concurrency)")
	batchCmd.Flags().BoolVar(&batchStopOnError, "stop-on-error", false,
		"cancel remaining jobs after the first failure")
	batchCmd.Flags().BoolVar(&batchDetailed, "detailed", false,
		"include per-job detail in the report")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	appCtx := &app.Context{
		JobFile:          args[0],
		OutputFile:       batchReport,
		Timeout:          batchTimeout,
		MaxConcurrent:    batchMaxConcurrent,
		StopOnError:      batchStopOnError,
		DetailedAnalysis: batchDetailed,
		Logger:           logging.NewDefaultLogger(),
		Config:           cfg,
	}

	batchApp, err := app.NewBatchApp(appCtx)
	if err != nil {
		return err
	}

	summary, err := batchApp.Run(ctx)

	// the report went to a file, so print a short result list
	if batchReport != "" && summary != nil {
		for _, result := range summary.Results {
			if result == nil {
				continue
			}
			printResult(result.Job.DisplayName(), result.Succeeded())
			if !result.Succeeded() && viper.GetBool("verbose") {
				printError("%v", result.Error)
			}
		}
		fmt.Printf("\n%sTotal Batch Duration: %v%s\n", ColorBold, summary.TotalDuration, ColorReset)
		printInfo("Report written to %s", batchReport)
	}

	return err
}
