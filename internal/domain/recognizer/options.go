package recognizer

import "github.com/okian/geodraw/internal/domain/align"

// Option applies a configuration option to the Recognizer.
type Option func(*Recognizer)

// WithNormalizer sets the pipeline candidate strokes go through. It must be
// the same pipeline the template store was built with.
func WithNormalizer(nz Normalizer) Option {
	return func(r *Recognizer) {
		if nz != nil {
			r.normalizer = nz
		}
	}
}

// WithSearch sets the rotation window and precision.
func WithSearch(s align.Search) Option {
	return func(r *Recognizer) {
		if s.Valid() {
			r.search = s
		}
	}
}

// WithMinPoints sets the fewest raw points a stroke needs to be considered.
func WithMinPoints(n int) Option {
	return func(r *Recognizer) {
		if n > 0 {
			r.minPoints = n
		}
	}
}
