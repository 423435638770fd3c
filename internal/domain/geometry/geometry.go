// Package geometry provides the point and path primitives the recognizer is
// built on. All functions are pure and allocate new paths rather than
// mutating their inputs.
package geometry

import "math"

// Point is a 2-D sample of a stroke.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is an ordered sequence of points. Order is the stroke's temporal order.
type Path []Point

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// PathLength sums the distances between consecutive points.
func PathLength(p Path) float64 {
	var d float64
	for i := 1; i < len(p); i++ {
		d += Distance(p[i-1], p[i])
	}
	return d
}

// Centroid returns the arithmetic mean of all points. The centroid of an
// empty path is the zero point.
func Centroid(p Path) Point {
	if len(p) == 0 {
		return Point{}
	}
	var x, y float64
	for _, pt := range p {
		x += pt.X
		y += pt.Y
	}
	n := float64(len(p))
	return Point{X: x / n, Y: y / n}
}

// BoundingBox returns the smallest axis-aligned box containing p.
func BoundingBox(p Path) Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{MinX: p[0].X, MinY: p[0].Y, MaxX: p[0].X, MaxY: p[0].Y}
	for _, pt := range p[1:] {
		r.MinX = math.Min(r.MinX, pt.X)
		r.MinY = math.Min(r.MinY, pt.Y)
		r.MaxX = math.Max(r.MaxX, pt.X)
		r.MaxY = math.Max(r.MaxY, pt.Y)
	}
	return r
}

// RotateBy rotates every point of p by angle radians around the centroid.
func RotateBy(p Path, angle float64) Path {
	c := Centroid(p)
	sin, cos := math.Sincos(angle)
	out := make(Path, len(p))
	for i, pt := range p {
		dx, dy := pt.X-c.X, pt.Y-c.Y
		out[i] = Point{
			X: dx*cos - dy*sin + c.X,
			Y: dx*sin + dy*cos + c.Y,
		}
	}
	return out
}

// PathDistance is the mean distance between points at the same index.
// Both paths must have the same length.
func PathDistance(a, b Path) float64 {
	if len(a) != len(b) {
		panic("geometry: path distance of unequal lengths")
	}
	if len(a) == 0 {
		return 0
	}
	var d float64
	for i := range a {
		d += Distance(a[i], b[i])
	}
	return d / float64(len(a))
}

// Clone returns a copy of p.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Scale multiplies every coordinate by f around the coordinate origin.
func (p Path) Scale(f float64) Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[i] = Point{X: pt.X * f, Y: pt.Y * f}
	}
	return out
}

// Translate shifts every point by (dx, dy).
func (p Path) Translate(dx, dy float64) Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[i] = Point{X: pt.X + dx, Y: pt.Y + dy}
	}
	return out
}

// Finite reports whether every coordinate of p is a finite number.
func (p Path) Finite() bool {
	for _, pt := range p {
		if math.IsNaN(pt.X) || math.IsInf(pt.X, 0) || math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0) {
			return false
		}
	}
	return true
}
