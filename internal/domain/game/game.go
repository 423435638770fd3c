// Package game turns recognition results into player-facing outcomes: whether
// a stroke counts, what the player is told, and how discoveries are scored.
package game

import (
	"errors"
	"time"

	"github.com/okian/geodraw/internal/domain/model"
	"github.com/okian/geodraw/internal/domain/recognizer"
	"github.com/okian/geodraw/internal/domain/template"
)

const (
	// DefaultThreshold is the lowest score accepted as a recognized shape.
	DefaultThreshold = 0.82
	// DefaultPointsPerDiscovery is awarded the first time a session draws a shape.
	DefaultPointsPerDiscovery = 50
)

// RetryMessage is shown for every rejected stroke.
const RetryMessage = "Hmm, that's a tricky one. Try drawing the shape again more clearly!"

// Reason explains why a stroke was rejected.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonTooShort     Reason = "too_short"
	ReasonDegenerate   Reason = "degenerate"
	ReasonLowScore     Reason = "low_score"
	ReasonUnrecognized Reason = "unrecognized"
)

// Verdict is the judged outcome of one stroke.
type Verdict struct {
	Accepted bool
	Shape    string // best template, set even when rejected for a low score
	Score    float64
	Reason   Reason
}

// Judge applies the acceptance policy. It is immutable and safe to share.
type Judge struct {
	threshold float64
	points    int
}

// NewJudge creates a Judge with the default policy adjusted by opts.
func NewJudge(opts ...Option) *Judge {
	j := &Judge{
		threshold: DefaultThreshold,
		points:    DefaultPointsPerDiscovery,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Threshold returns the acceptance threshold.
func (j *Judge) Threshold() float64 { return j.threshold }

// PointsPerDiscovery returns the reward for a first discovery.
func (j *Judge) PointsPerDiscovery() int { return j.points }

// Evaluate judges the output of recognizer.Recognize.
func (j *Judge) Evaluate(res recognizer.Result, err error) Verdict {
	switch {
	case errors.Is(err, recognizer.ErrInsufficientInput):
		return Verdict{Reason: ReasonTooShort}
	case errors.Is(err, recognizer.ErrDegeneratePath):
		return Verdict{Reason: ReasonDegenerate}
	case err != nil:
		return Verdict{Reason: ReasonUnrecognized}
	}

	v := Verdict{Shape: res.Name, Score: res.Score}
	if res.Name == "" || res.Score < j.threshold {
		v.Reason = ReasonLowScore
		return v
	}
	v.Accepted = true
	return v
}

// Feedback returns the message shown to the player for v. def describes the
// recognized shape and is ignored for rejected verdicts.
func Feedback(v Verdict, def template.Definition) string {
	if !v.Accepted {
		return RetryMessage
	}
	name := def.DisplayName
	if name == "" {
		name = v.Shape
	}
	msg := "It's a " + name + "!"
	if def.Properties != "" {
		msg += " " + def.Properties
	}
	return msg
}

// Discovery builds the record of a first discovery for v.
func (j *Judge) Discovery(v Verdict, now time.Time) model.Discovery {
	return model.Discovery{
		Shape:        v.Shape,
		Score:        v.Score,
		Points:       j.points,
		DiscoveredAt: now,
	}
}
