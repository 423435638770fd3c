// Package normalize brings a raw stroke into the canonical space templates
// live in: a fixed number of points spaced evenly by arc length, rotated so
// the first point sits on the positive x axis, scaled into a reference square
// and centred on the origin.
package normalize

import (
	"fmt"
	"math"

	"github.com/okian/geodraw/internal/domain/geometry"
)

// Defaults used when no option overrides them.
const (
	DefaultResampleCount = 64
	DefaultReferenceSize = 250.0

	minResampleCount = 2
	// lengthEpsilon is the arc length below which a path has no usable shape.
	lengthEpsilon = 1e-9
)

// Normalizer runs the normalization pipeline. The zero value is not usable;
// construct with New.
type Normalizer struct {
	n      int
	size   float64
	origin geometry.Point
}

// New creates a Normalizer with the given options.
func New(opts ...Option) *Normalizer {
	nz := &Normalizer{
		n:    DefaultResampleCount,
		size: DefaultReferenceSize,
	}
	for _, opt := range opts {
		opt(nz)
	}
	return nz
}

// ResampleCount returns the number of points in every normalized path.
func (nz *Normalizer) ResampleCount() int { return nz.n }

// ReferenceSize returns the side of the reference square.
func (nz *Normalizer) ReferenceSize() float64 { return nz.size }

// Normalize resamples, rotates, scales and translates p. The input is never
// modified. A path without measurable length yields ErrDegeneratePath.
func (nz *Normalizer) Normalize(p geometry.Path) (geometry.Path, error) {
	resampled, err := Resample(p, nz.n)
	if err != nil {
		return nil, err
	}
	out := RotateToZero(resampled)
	out = ScaleTo(out, nz.size)
	out = TranslateTo(out, nz.origin)
	if !out.Finite() {
		return nil, fmt.Errorf("non-finite coordinates after normalization: %w", ErrDegeneratePath)
	}
	return out, nil
}

// Resample returns exactly n points spaced at equal arc-length intervals
// along p. Interpolated points are written to a separate accumulator; the
// walk continues from the last emitted point as if it had been inserted into
// the input.
func Resample(p geometry.Path, n int) (geometry.Path, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPath
	}
	if n < minResampleCount {
		return nil, fmt.Errorf("resample count %d below %d: %w", n, minResampleCount, ErrDegeneratePath)
	}
	if !p.Finite() {
		return nil, fmt.Errorf("non-finite input coordinates: %w", ErrDegeneratePath)
	}
	length := geometry.PathLength(p)
	if length <= lengthEpsilon {
		return nil, ErrDegeneratePath
	}

	interval := length / float64(n-1)
	out := make(geometry.Path, 0, n)
	out = append(out, p[0])

	var acc float64
	prev := p[0]
	for i := 1; i < len(p) && len(out) < n; i++ {
		cur := p[i]
		d := geometry.Distance(prev, cur)
		for d > 0 && acc+d >= interval && len(out) < n {
			t := (interval - acc) / d
			q := geometry.Point{
				X: prev.X + t*(cur.X-prev.X),
				Y: prev.Y + t*(cur.Y-prev.Y),
			}
			out = append(out, q)
			prev = q
			d = geometry.Distance(prev, cur)
			acc = 0
		}
		acc += d
		prev = cur
	}

	// Rounding can leave the walk one point short of the end.
	last := p[len(p)-1]
	for len(out) < n {
		out = append(out, last)
	}
	return out, nil
}

// IndicativeAngle is the angle from the centroid of p to its first point.
func IndicativeAngle(p geometry.Path) float64 {
	if len(p) == 0 {
		return 0
	}
	c := geometry.Centroid(p)
	return math.Atan2(p[0].Y-c.Y, p[0].X-c.X)
}

// RotateToZero rotates p so its indicative angle becomes zero.
func RotateToZero(p geometry.Path) geometry.Path {
	return geometry.RotateBy(p, -IndicativeAngle(p))
}

// ScaleTo scales p uniformly so the larger side of its bounding box equals
// size. A path with an empty bounding box is returned unscaled.
func ScaleTo(p geometry.Path, size float64) geometry.Path {
	b := geometry.BoundingBox(p)
	extent := math.Max(b.Width(), b.Height())
	if extent == 0 {
		return p.Clone()
	}
	return p.Scale(size / extent)
}

// TranslateTo moves p so its centroid lands on origin.
func TranslateTo(p geometry.Path, origin geometry.Point) geometry.Path {
	c := geometry.Centroid(p)
	return p.Translate(origin.X-c.X, origin.Y-c.Y)
}
