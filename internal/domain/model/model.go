// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"time"

	"github.com/okian/geodraw/internal/domain/geometry"
)

// ErrSessionNotFound is returned by every layer for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Stroke is one finished pointer path submitted for a game session.
type Stroke struct {
	StrokeID   string        // unique id for idempotency
	SessionID  string        // game session the stroke belongs to
	Points     geometry.Path // samples from pointer-down to pointer-up
	ReceivedAt time.Time     // when the service accepted the stroke
}

// Discovery records the first time a session drew a shape.
type Discovery struct {
	Shape        string
	Score        float64
	Points       int
	DiscoveredAt time.Time
}

// Session is the progress of one player through the shape game.
type Session struct {
	ID             string
	Score          int
	CorrectAnswers int
	Attempts       int
	Discoveries    []Discovery
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Discovered reports whether the session has already found shape.
func (s Session) Discovered(shape string) bool {
	for _, d := range s.Discoveries {
		if d.Shape == shape {
			return true
		}
	}
	return false
}

// Attempt counts one judged stroke.
func (s *Session) Attempt(now time.Time) {
	s.Attempts++
	s.UpdatedAt = now
}

// Award adds d unless the session already found d.Shape. Only a first
// discovery adds its points and counts as a correct answer; the result
// reports whether d was new.
func (s *Session) Award(d Discovery) bool {
	if s.Discovered(d.Shape) {
		return false
	}
	s.Discoveries = append(s.Discoveries, d)
	s.Score += d.Points
	s.CorrectAnswers++
	s.UpdatedAt = d.DiscoveredAt
	return true
}
