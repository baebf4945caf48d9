package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/uwave/configs"
	"github.com/RyanBlaney/uwave/internal/app"
)

const envPrefix = "UWAVE"

var (
	configFile   string
	verbose      bool
	logLevel     string
	logFile      string
	outputFormat string
	configDir    string
	dataDir      string
)

// rootCmd is the uwave entry point; subcommands register themselves in init
var rootCmd = &cobra.Command{
	Use:   "uwave",
	Short: "DFT and MFCC feature extraction toolkit",
	Long: `A toolkit for frequency analysis of PCM audio.

Key features:
- Single block DFT analysis with dominant frequency estimation
- MFCC feature extraction with mel filterbank and DCT
- Test waveform generation (sine, square, saw, noise)
- Concurrent batch processing from YAML or JSON job files
- WAV (8/16-bit) and FLAC input`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"config directory (default is $HOME/.config/uwave)")

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/uwave/uwave.yaml)")

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"data directory (default is $HOME/.local/share/uwave)")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to this file (reopened on SIGHUP)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table",
		"report format (json, table, csv, yaml)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("config_dir", rootCmd.PersistentFlags().Lookup("config-dir"))
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

// initConfig locates uwave.yaml, enables UWAVE_ env overrides and fills defaults
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		if configDir != "" {
			viper.AddConfigPath(configDir)
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "uwave"))
		viper.AddConfigPath("/etc/uwave")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("uwave")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// a missing config file is fine; defaults cover every key
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}

	// Defaults fill only what the file, env and flags left unset
	configs.SetDefaults(viper.GetViper())
}

// initializeConfig binds flags and applies logging settings after flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	if err := bindFlags(cmd, viper.GetViper()); err != nil {
		return err
	}
	return app.ConfigureLogging(viper.GetString("log_level"), viper.GetString("log_file"))
}

// bindFlags exposes every flag of cmd to viper under its own name and as UWAVE_<NAME>
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))

		// unset flags pick up config or env values
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				lastErr = err
			}
		}

		if err := v.BindPFlag(f.Name, f); err != nil {
			lastErr = err
		}

		if err := v.BindEnv(f.Name, envPrefix+"_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// loadConfig decodes and validates the effective configuration
func loadConfig() (*configs.Config, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := configs.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// GetConfig returns the viper instance the commands read from
func GetConfig() *viper.Viper {
	return viper.GetViper()
}
