package strokesim

import (
	"context"
	"fmt"

	"github.com/okian/geodraw/internal/domain/types"
	"github.com/okian/geodraw/pkg/logger"
)

// verifyResults checks the sessions and leaderboard are consistent with
// each other and with the discovery rules.
func verifyResults(ctx context.Context, sessions []types.SessionView, leaderboard []types.Entry, stats *Stats) error {
	if len(sessions) == 0 {
		return fmt.Errorf("no sessions to verify")
	}

	byID := make(map[string]types.SessionView, len(sessions))
	for _, s := range sessions {
		if err := verifySession(s); err != nil {
			return err
		}
		byID[s.SessionID] = s
		stats.StrokesJudged += s.Attempts
		stats.Discoveries += len(s.Discoveries)
	}

	if err := verifyLeaderboard(leaderboard, byID); err != nil {
		return err
	}
	logger.Get().Info(ctx, "results verified",
		logger.Int("sessions", len(sessions)),
		logger.Int("discoveries", stats.Discoveries))
	return nil
}

// verifySession checks a session's score is the sum of its discoveries and
// that no shape was rewarded twice.
func verifySession(s types.SessionView) error {
	seen := make(map[string]bool, len(s.Discoveries))
	points := 0
	for _, d := range s.Discoveries {
		if seen[d.Shape] {
			return fmt.Errorf("session %s discovered %s twice", s.SessionID, d.Shape)
		}
		seen[d.Shape] = true
		points += d.Points
	}
	switch {
	case points != s.Score:
		return fmt.Errorf("session %s score %d does not match discoveries worth %d", s.SessionID, s.Score, points)
	case s.CorrectAnswers != len(s.Discoveries):
		return fmt.Errorf("session %s has %d correct answers but %d discoveries", s.SessionID, s.CorrectAnswers, len(s.Discoveries))
	case s.Attempts < len(s.Discoveries):
		return fmt.Errorf("session %s has fewer attempts than discoveries", s.SessionID)
	}
	return nil
}

// verifyLeaderboard checks ordering and that entries agree with sessions.
func verifyLeaderboard(leaderboard []types.Entry, sessions map[string]types.SessionView) error {
	for i, e := range leaderboard {
		if i > 0 && e.Score > leaderboard[i-1].Score {
			return fmt.Errorf("leaderboard not properly sorted: entry %d has higher score than entry %d", i, i-1)
		}
		s, ok := sessions[e.SessionID]
		if !ok {
			continue
		}
		if s.Score != e.Score {
			return fmt.Errorf("leaderboard score %d for %s does not match session score %d", e.Score, e.SessionID, s.Score)
		}
	}
	return nil
}
