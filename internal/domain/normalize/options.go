package normalize

import "github.com/okian/geodraw/internal/domain/geometry"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithResampleCount sets the number of points every normalized path has.
func WithResampleCount(n int) Option {
	return func(nz *Normalizer) {
		if n >= minResampleCount {
			nz.n = n
		}
	}
}

// WithReferenceSize sets the side of the square paths are scaled into.
func WithReferenceSize(size float64) Option {
	return func(nz *Normalizer) {
		if size > 0 {
			nz.size = size
		}
	}
}

// WithOrigin sets the point the centroid is moved to.
func WithOrigin(p geometry.Point) Option {
	return func(nz *Normalizer) {
		nz.origin = p
	}
}
