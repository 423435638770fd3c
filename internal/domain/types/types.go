// Package types contains the JSON read shapes shared by the service and the
// HTTP layer.
package types

import "time"

// Recognition is the outcome of classifying one stroke.
type Recognition struct {
	Matched  bool    `json:"matched"`
	Name     string  `json:"name,omitempty"`
	Score    float64 `json:"score"`
	Accepted bool    `json:"accepted"`
	Reason   string  `json:"reason,omitempty"`
	Message  string  `json:"message"`
	Shape    *Shape  `json:"shape,omitempty"`
	// Scores is filled only for debug requests.
	Scores []TemplateScore `json:"scores,omitempty"`
}

// TemplateScore is one template's similarity to a stroke.
type TemplateScore struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Distance float64 `json:"distance"`
}

// Shape describes a recognizable shape.
type Shape struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Emoji       string `json:"emoji"`
	Properties  string `json:"properties"`
}

// Discovery is a shape a session has found.
type Discovery struct {
	Shape        string    `json:"shape"`
	Score        float64   `json:"score"`
	Points       int       `json:"points"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// SessionView is the read shape of a game session.
type SessionView struct {
	SessionID      string      `json:"session_id"`
	Score          int         `json:"score"`
	CorrectAnswers int         `json:"correct_answers"`
	Attempts       int         `json:"attempts"`
	Discoveries    []Discovery `json:"discoveries"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Entry represents a leaderboard entry.
type Entry struct {
	Rank      int    `json:"rank"`
	SessionID string `json:"session_id"`
	Score     int    `json:"score"`
	Found     int    `json:"found"`
}

// Stats is the service snapshot served by GET /stats. The runtime fields are
// zero until the service has started.
type Stats struct {
	Started        bool     `json:"started"`
	Store          string   `json:"store"`
	WorkerCount    int      `json:"worker_count"`
	QueueCapacity  int      `json:"queue_capacity"`
	DedupeCapacity int      `json:"dedupe_capacity"`
	QueueLength    int      `json:"queue_length"`
	Sessions       int      `json:"sessions"`
	Templates      []string `json:"templates,omitempty"`
	Threshold      float64  `json:"threshold"`
	Processed      int64    `json:"processed"`
	ActiveWorkers  int64    `json:"active_workers"`
	DedupeEntries  int64    `json:"dedupe_entries"`
}
