package strokesim

import (
	"time"

	"github.com/okian/geodraw/internal/domain/geometry"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL           string        // Base URL of the service
	Sessions          int           // Number of game sessions to create
	StrokesPerSession int           // Strokes drawn in each session
	ScribbleRatio     float64       // Share of strokes that are scribbles
	Jitter            float64       // Per-point noise as a fraction of size
	Seed              int64         // Generator seed
	TopN              int           // Number of leaderboard entries to fetch
	Workers           int           // Number of concurrent submitters
	Timeout           time.Duration // HTTP request timeout
	Settle            time.Duration // How long to wait for strokes to be judged
	LogFile           string        // Log file for run output
	Verbose           bool          // Enable verbose logging
}

// strokeRequest is the body of POST /strokes.
type strokeRequest struct {
	StrokeID  string        `json:"stroke_id"`
	SessionID string        `json:"session_id"`
	Points    geometry.Path `json:"points"`
}

// ackResponse represents the response from stroke submission.
type ackResponse struct {
	Status    string `json:"status"`
	StrokeID  string `json:"stroke_id"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds run statistics.
type Stats struct {
	SessionsCreated    int
	StrokesGenerated   int
	ScribblesGenerated int
	StrokesSubmitted   int
	StrokesAccepted    int
	StrokesDuplicate   int
	StrokesFailed      int
	StrokesJudged      int
	Discoveries        int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
