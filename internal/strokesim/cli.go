// Package strokesim drives a running geodraw service with synthetic
// strokes and checks the sessions and leaderboard it produces.
package strokesim

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/geodraw/pkg/logger"
)

// logFilePermission is the mode of created log files.
const logFilePermission = 0o600

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) (io.Closer, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		logFile = "stroke_sim_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the stroke simulator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`geodraw stroke simulator
========================

Creates game sessions, draws synthetic shapes and scribbles into them
concurrently, then checks the judged sessions against the leaderboard.

Usage:
  go run ./cmd/stroke-sim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -sessions int
        Number of sessions to create (default 20)
  -strokes int
        Strokes drawn per session (default 10)
  -scribbles float
        Share of strokes that are scribbles (default 0.2)
  -jitter float
        Per-point noise as a fraction of shape size (default 0.005)
  -seed int
        Generator seed (default: current time)
  -top int
        Number of leaderboard entries to fetch (default 10)
  -workers int
        Number of concurrent submitters (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -settle duration
        How long to wait for strokes to be judged (default 30s)
  -log string
        Log file for run output (default: stroke_sim_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run ./cmd/stroke-sim

  # A larger, reproducible run against another port
  go run ./cmd/stroke-sim -sessions 200 -strokes 30 -seed 42 -url http://localhost:8080
`)
}
