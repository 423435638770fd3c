package strokesim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/geodraw/internal/domain/types"
	"github.com/okian/geodraw/pkg/logger"
)

// pollInterval is how often judged attempts are checked while settling.
const pollInterval = 100 * time.Millisecond

// createSessions starts n sessions.
func createSessions(ctx context.Context, client *HTTPClient, n int, stats *Stats) ([]string, error) {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := client.createSession(ctx)
		if err != nil {
			return nil, fmt.Errorf("create session %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	stats.SessionsCreated = len(ids)
	logger.Get().Info(ctx, "sessions created", logger.Int("count", len(ids)))
	return ids, nil
}

// retrieveSessions fetches every session concurrently. Sessions that fail
// to load are left out.
func retrieveSessions(ctx context.Context, config *Config, client *HTTPClient, ids []string) []types.SessionView {
	views := make([]types.SessionView, len(ids))
	ok := make([]bool, len(ids))

	jobs := make(chan int, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				view, err := client.session(ctx, ids[idx])
				if err != nil {
					if config.Verbose {
						logger.Get().Warn(ctx, "failed to get session", logger.String("session_id", ids[idx]), logger.Error(err))
					}
					continue
				}
				views[idx], ok[idx] = view, true
			}
		}()
	}
	for i := range ids {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]types.SessionView, 0, len(views))
	for i, v := range views {
		if ok[i] {
			out = append(out, v)
		}
	}
	return out
}

// waitForJudging polls the sessions until every accepted stroke has been
// judged or the settle time runs out.
func waitForJudging(ctx context.Context, config *Config, client *HTTPClient, ids []string, expected int) []types.SessionView {
	deadline := time.Now().Add(config.Settle)
	for {
		views := retrieveSessions(ctx, config, client, ids)
		if judged(views) >= expected || time.Now().After(deadline) || ctx.Err() != nil {
			return views
		}
		select {
		case <-ctx.Done():
			return views
		case <-time.After(pollInterval):
		}
	}
}

func judged(views []types.SessionView) int {
	n := 0
	for _, v := range views {
		n += v.Attempts
	}
	return n
}

// getLeaderboard fetches the top entries.
func getLeaderboard(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) ([]types.Entry, error) {
	var entries []types.Entry
	if err := client.getJSON(ctx, fmt.Sprintf("/leaderboard?limit=%d", config.TopN), &entries); err != nil {
		return nil, err
	}
	stats.LeaderboardEntries = len(entries)
	return entries, nil
}
