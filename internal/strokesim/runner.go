package strokesim

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/okian/geodraw/pkg/logger"
)

// Run executes a complete simulation: create sessions, draw and submit
// strokes, wait for judging, then verify sessions and the leaderboard.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting geodraw stroke simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("sessions", config.Sessions),
		logger.Int("strokesPerSession", config.StrokesPerSession),
		logger.Int("workers", config.Workers),
		logger.Any("seed", config.Seed),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	ids, err := createSessions(ctx, client, config.Sessions, stats)
	if err != nil {
		return stats, fmt.Errorf("session creation failed: %w", err)
	}

	strokes := generateStrokes(config, ids, stats)
	submitStrokes(ctx, config, client, strokes, stats)

	logger.Get().Info(ctx, "waiting for strokes to be judged")
	sessions := waitForJudging(ctx, config, client, ids, stats.StrokesAccepted)

	leaderboard, err := getLeaderboard(ctx, config, client, stats)
	if err != nil {
		return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	if err := verifyResults(ctx, sessions, leaderboard, stats); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// generateStrokes draws every session's strokes with one seeded generator.
func generateStrokes(config *Config, ids []string, stats *Stats) []strokeRequest {
	gen := NewGenerator(config.Seed,
		WithJitter(config.Jitter),
		WithScribbleRatio(config.ScribbleRatio),
	)
	out := make([]strokeRequest, 0, len(ids)*config.StrokesPerSession)
	for _, id := range ids {
		for i := 0; i < config.StrokesPerSession; i++ {
			s := gen.Next()
			if s.Shape == "" {
				stats.ScribblesGenerated++
			}
			out = append(out, strokeRequest{StrokeID: uuid.NewString(), SessionID: id, Points: s.Points})
		}
	}
	stats.StrokesGenerated = len(out)
	return out
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// The service answers with Prometheus metrics
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var strokesPerSecond, discoveryRate float64
	if stats.Duration > 0 {
		strokesPerSecond = float64(stats.StrokesSubmitted) / stats.Duration.Seconds()
	}
	if stats.StrokesJudged > 0 {
		discoveryRate = float64(stats.Discoveries) / float64(stats.StrokesJudged)
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("sessionsCreated", stats.SessionsCreated),
		logger.Int("strokesGenerated", stats.StrokesGenerated),
		logger.Int("scribblesGenerated", stats.ScribblesGenerated),
		logger.Int("strokesSubmitted", stats.StrokesSubmitted),
		logger.Int("strokesAccepted", stats.StrokesAccepted),
		logger.Int("strokesFailed", stats.StrokesFailed),
		logger.Int("strokesJudged", stats.StrokesJudged),
		logger.Int("discoveries", stats.Discoveries),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Duration("duration", stats.Duration),
		logger.Float64("strokesPerSecond", strokesPerSecond),
		logger.Float64("discoveryRate", discoveryRate))
}
