package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/geodraw/internal/strokesim"
)

// Default configuration constants.
const (
	defaultSessions      = 20
	defaultStrokes       = 10
	defaultScribbleRatio = 0.2
	defaultJitter        = 0.005
	defaultTopN          = 10
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultSettle        = 30 * time.Second
	defaultRunTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		sessions  = flag.Int("sessions", defaultSessions, "Number of sessions to create")
		strokes   = flag.Int("strokes", defaultStrokes, "Strokes drawn per session")
		scribbles = flag.Float64("scribbles", defaultScribbleRatio, "Share of strokes that are scribbles")
		jitter    = flag.Float64("jitter", defaultJitter, "Per-point noise as a fraction of shape size")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "Generator seed")
		topN      = flag.Int("top", defaultTopN, "Number of leaderboard entries to fetch")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle    = flag.Duration("settle", defaultSettle, "How long to wait for strokes to be judged")
		logFile   = flag.String("log", "", "Log file for run output (default: stroke_sim_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		strokesim.ShowHelp()
		return
	}

	closer, err := strokesim.SetupLogging(*logFile)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &strokesim.Config{
		BaseURL:           *baseURL,
		Sessions:          *sessions,
		StrokesPerSession: *strokes,
		ScribbleRatio:     *scribbles,
		Jitter:            *jitter,
		Seed:              *seed,
		TopN:              *topN,
		Workers:           *workers,
		Timeout:           *timeout,
		Settle:            *settle,
		LogFile:           *logFile,
		Verbose:           *verbose,
	}

	if _, err := strokesim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		cancel()
		_ = closer.Close()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: resources released above
	}
}
