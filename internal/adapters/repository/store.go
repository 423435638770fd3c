// Package repository persists game sessions and serves the leaderboard.
package repository

import (
	"context"
	"sort"
	"time"

	"github.com/okian/geodraw/internal/domain/model"
	"github.com/okian/geodraw/internal/domain/types"
)

// Entry represents a leaderboard row.
type Entry = types.Entry

// Store provides read/write access to game sessions.
type Store interface {
	// Create registers a new session. Returns ErrExists if id is taken.
	Create(ctx context.Context, id string, now time.Time) error

	// Get returns a copy of the session.
	// Returns ErrNotFound if the session is unknown.
	Get(ctx context.Context, id string) (model.Session, error)

	// RecordAttempt counts one judged stroke for the session.
	RecordAttempt(ctx context.Context, id string, now time.Time) error

	// Discover records d unless the session already found d.Shape. It
	// reports whether the discovery was new; only a new discovery adds
	// d.Points to the score and counts as a correct answer.
	Discover(ctx context.Context, id string, d model.Discovery) (bool, error)

	// TopN returns the top-N sessions ordered by score desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of sessions.
	Count(ctx context.Context) int

	Close() error
}

// sortEntries orders by score desc, then discoveries desc, then id asc.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].Found != entries[j].Found {
			return entries[i].Found > entries[j].Found
		}
		return entries[i].SessionID < entries[j].SessionID
	})
}

// assignRanksWithTies gives sessions with equal scores the same rank; ranks
// stay consecutive.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
