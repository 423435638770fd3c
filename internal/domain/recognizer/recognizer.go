// Package recognizer classifies a finished stroke against a template store
// with the $1 unistroke method.
//
// A Recognizer holds only read-only state and is safe for concurrent use.
package recognizer

import (
	"fmt"
	"math"

	"github.com/okian/geodraw/internal/domain/align"
	"github.com/okian/geodraw/internal/domain/geometry"
	"github.com/okian/geodraw/internal/domain/normalize"
	"github.com/okian/geodraw/internal/domain/template"
)

// DefaultMinPoints is the fewest raw points a deliberate stroke has.
const DefaultMinPoints = 10

// Normalizer is the pipeline shared by templates and candidates.
type Normalizer interface {
	Normalize(p geometry.Path) (geometry.Path, error)
	ReferenceSize() float64
}

// Result is the best template for a stroke.
type Result struct {
	Name     string
	Score    float64
	Distance float64
}

// Match is one template's score for a stroke.
type Match struct {
	Name     string
	Score    float64
	Distance float64
}

// Recognizer compares strokes with every template of a store.
type Recognizer struct {
	store      *template.Store
	normalizer Normalizer
	search     align.Search
	minPoints  int
}

// New creates a Recognizer over store. The store must hold at least one
// template built with the same normalizer the Recognizer is given.
func New(store *template.Store, opts ...Option) (*Recognizer, error) {
	if store.Len() == 0 {
		return nil, ErrNoTemplates
	}
	r := &Recognizer{
		store:      store,
		normalizer: normalize.New(),
		search:     align.DefaultSearch(),
		minPoints:  DefaultMinPoints,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MustNew is New for setup code where a missing template set is a bug.
func MustNew(store *template.Store, opts ...Option) *Recognizer {
	r, err := New(store, opts...)
	if err != nil {
		panic(fmt.Sprintf("recognizer: %v", err))
	}
	return r
}

// Store returns the template store the Recognizer reads.
func (r *Recognizer) Store() *template.Store { return r.store }

// MinPoints returns the fewest raw points accepted.
func (r *Recognizer) MinPoints() int { return r.minPoints }

// Recognize returns the closest template for p. Short strokes yield
// ErrInsufficientInput and strokes without extent ErrDegeneratePath; neither
// is a failure of the recognizer, only a stroke that cannot be classified.
func (r *Recognizer) Recognize(p geometry.Path) (Result, error) {
	candidate, err := r.prepare(p)
	if err != nil {
		return Result{}, err
	}

	best := Result{Distance: math.Inf(1)}
	for _, t := range r.store.Templates() {
		_, d := r.search.Best(candidate, t.Points)
		// Strict comparison keeps the first template on ties.
		if d < best.Distance {
			best.Distance = d
			best.Name = t.Name
		}
	}
	best.Score = ScoreFromDistance(best.Distance, r.normalizer.ReferenceSize())
	return best, nil
}

// Scores returns every template's score for p, in store order.
func (r *Recognizer) Scores(p geometry.Path) ([]Match, error) {
	candidate, err := r.prepare(p)
	if err != nil {
		return nil, err
	}

	templates := r.store.Templates()
	out := make([]Match, len(templates))
	for i, t := range templates {
		_, d := r.search.Best(candidate, t.Points)
		out[i] = Match{
			Name:     t.Name,
			Distance: d,
			Score:    ScoreFromDistance(d, r.normalizer.ReferenceSize()),
		}
	}
	return out, nil
}

func (r *Recognizer) prepare(p geometry.Path) (geometry.Path, error) {
	if len(p) < r.minPoints {
		return nil, fmt.Errorf("%d points, need %d: %w", len(p), r.minPoints, ErrInsufficientInput)
	}
	candidate, err := r.normalizer.Normalize(p)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return candidate, nil
}

// ScoreFromDistance maps a path distance to a similarity: 1 for identical
// paths, falling linearly as distance grows. The divisor is half the
// diagonal of the reference square.
func ScoreFromDistance(d, size float64) float64 {
	return 1 - d/(0.5*math.Sqrt(2*size*size))
}
