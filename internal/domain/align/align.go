// Package align finds the rotation that best lines a candidate path up with
// a template, using golden-section search over a bounded angle window.
package align

import (
	"math"

	"github.com/okian/geodraw/internal/domain/geometry"
)

// Phi is the inverse golden ratio, (√5 − 1) / 2.
var Phi = 0.5 * (math.Sqrt(5) - 1)

// Default search window and precision, in radians.
const (
	DefaultLow       = -math.Pi / 2
	DefaultHigh      = math.Pi / 2
	DefaultPrecision = 0.02
)

// Search bounds the rotation search.
type Search struct {
	Low       float64
	High      float64
	Precision float64
}

// DefaultSearch returns a ±90° window searched to 0.02 rad.
func DefaultSearch() Search {
	return Search{Low: DefaultLow, High: DefaultHigh, Precision: DefaultPrecision}
}

// Symmetric returns a window of ±rng searched to precision.
func Symmetric(rng, precision float64) Search {
	return Search{Low: -rng, High: rng, Precision: precision}
}

// Valid reports whether the window is non-empty and the precision positive.
func (s Search) Valid() bool {
	return s.High > s.Low && s.Precision > 0
}

// GoldenSection minimizes f over [a, b], assuming f is unimodal there. It
// evaluates f once per iteration and stops when the interval is narrower than
// precision, returning the better of the two final probes.
func GoldenSection(f func(float64) float64, a, b, precision float64) (x, fx float64) {
	x1 := Phi*a + (1-Phi)*b
	f1 := f(x1)
	x2 := (1-Phi)*a + Phi*b
	f2 := f(x2)
	for math.Abs(b-a) > precision {
		if f1 < f2 {
			b = x2
			x2, f2 = x1, f1
			x1 = Phi*a + (1-Phi)*b
			f1 = f(x1)
		} else {
			a = x1
			x1, f1 = x2, f2
			x2 = (1-Phi)*a + Phi*b
			f2 = f(x2)
		}
	}
	if f1 < f2 {
		return x1, f1
	}
	return x2, f2
}

// DistanceAtAngle rotates candidate by angle about its centroid and returns
// its mean point-wise distance to template.
func DistanceAtAngle(candidate, template geometry.Path, angle float64) float64 {
	return geometry.PathDistance(geometry.RotateBy(candidate, angle), template)
}

// DistanceAtBestAngle returns the smallest path distance found while rotating
// candidate within [low, high].
func DistanceAtBestAngle(candidate, template geometry.Path, low, high, precision float64) float64 {
	_, d := GoldenSection(func(angle float64) float64 {
		return DistanceAtAngle(candidate, template, angle)
	}, low, high, precision)
	return d
}

// Best runs DistanceAtBestAngle with the window and precision of s and also
// reports the angle it settled on.
func (s Search) Best(candidate, template geometry.Path) (angle, distance float64) {
	return GoldenSection(func(a float64) float64 {
		return DistanceAtAngle(candidate, template, a)
	}, s.Low, s.High, s.Precision)
}
