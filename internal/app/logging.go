package app

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/tunein/go-logging/v7/pkg/logger"
	"github.com/tunein/go-logging/v7/pkg/logger/logtypes"
	"github.com/tunein/go-logging/v7/pkg/rootlogger"
)

// ConfigureLogging sets the global log level and, when logFile is set, the
// rootlogger file writer. The file is reopened on SIGHUP.
func ConfigureLogging(level, logFile string) error {
	switch strings.ToLower(level) {
	case "debug":
		logging.SetLevel(logging.DebugLevel)
	case "", "info":
		logging.SetLevel(logging.InfoLevel)
	case "warn", "warning":
		logging.SetLevel(logging.WarnLevel)
	case "error":
		logging.SetLevel(logging.ErrorLevel)
	default:
		return fmt.Errorf("unknown log level %q", level)
	}

	if logFile == "" {
		return nil
	}

	err := rootlogger.Configure(logger.LogOptions{
		Out:          logFile,
		ReopenSignal: syscall.SIGHUP,
		Level:        logtypes.InfoLevel,
	})
	if err != nil {
		return fmt.Errorf("failed configuring log writer: %w", err)
	}
	return nil
}
