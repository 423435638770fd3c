package geometry_test

import (
	"math"
	"testing"

	"github.com/okian/geodraw/internal/domain/geometry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDistance(t *testing.T) {
	Convey("Given two points", t, func() {
		a := geometry.Point{X: 0, Y: 0}
		b := geometry.Point{X: 3, Y: 4}

		Convey("Then the distance is the Euclidean norm", func() {
			So(geometry.Distance(a, b), ShouldEqual, 5)
			So(geometry.Distance(b, a), ShouldEqual, 5)
			So(geometry.Distance(a, a), ShouldEqual, 0)
		})
	})
}

func TestPathLength(t *testing.T) {
	Convey("Given paths of various lengths", t, func() {
		Convey("When the path has a single point", func() {
			So(geometry.PathLength(geometry.Path{{X: 1, Y: 1}}), ShouldEqual, 0)
		})

		Convey("When the path is empty", func() {
			So(geometry.PathLength(nil), ShouldEqual, 0)
		})

		Convey("When the path is an open square outline", func() {
			p := geometry.Path{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
			So(geometry.PathLength(p), ShouldEqual, 30)
		})
	})
}

func TestCentroidAndBoundingBox(t *testing.T) {
	Convey("Given a rectangle outline", t, func() {
		p := geometry.Path{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}}

		Convey("Then the centroid is the mean of the corners", func() {
			c := geometry.Centroid(p)
			So(c.X, ShouldEqual, 2)
			So(c.Y, ShouldEqual, 1)
		})

		Convey("Then the bounding box has the rectangle's extents", func() {
			r := geometry.BoundingBox(p)
			So(r.Width(), ShouldEqual, 4)
			So(r.Height(), ShouldEqual, 2)
		})
	})

	Convey("Given a path of identical points", t, func() {
		p := geometry.Path{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}}

		Convey("Then the bounding box is empty", func() {
			r := geometry.BoundingBox(p)
			So(r.Width(), ShouldEqual, 0)
			So(r.Height(), ShouldEqual, 0)
		})
	})

	Convey("Given an empty path", t, func() {
		So(geometry.Centroid(nil), ShouldResemble, geometry.Point{})
		So(geometry.BoundingBox(nil), ShouldResemble, geometry.Rect{})
	})
}

func TestRotateBy(t *testing.T) {
	Convey("Given a horizontal segment centred on the origin", t, func() {
		p := geometry.Path{{X: -1, Y: 0}, {X: 1, Y: 0}}

		Convey("When rotated by a quarter turn", func() {
			r := geometry.RotateBy(p, math.Pi/2)

			Convey("Then it becomes vertical", func() {
				So(r[0].X, ShouldAlmostEqual, 0, 1e-12)
				So(r[0].Y, ShouldAlmostEqual, -1, 1e-12)
				So(r[1].X, ShouldAlmostEqual, 0, 1e-12)
				So(r[1].Y, ShouldAlmostEqual, 1, 1e-12)
			})

			Convey("And the input is untouched", func() {
				So(p[0], ShouldResemble, geometry.Point{X: -1, Y: 0})
			})
		})
	})

	Convey("Given an off-origin path", t, func() {
		p := geometry.Path{{X: 10, Y: 10}, {X: 12, Y: 10}, {X: 12, Y: 14}}
		c := geometry.Centroid(p)

		Convey("Then rotation keeps the centroid fixed", func() {
			r := geometry.RotateBy(p, 1.234)
			rc := geometry.Centroid(r)
			So(rc.X, ShouldAlmostEqual, c.X, 1e-9)
			So(rc.Y, ShouldAlmostEqual, c.Y, 1e-9)
		})
	})
}

func TestPathDistance(t *testing.T) {
	Convey("Given two equal-length paths", t, func() {
		a := geometry.Path{{X: 0, Y: 0}, {X: 1, Y: 0}}
		b := geometry.Path{{X: 0, Y: 3}, {X: 1, Y: 1}}

		Convey("Then the distance is the mean point-wise distance", func() {
			So(geometry.PathDistance(a, b), ShouldEqual, 2)
			So(geometry.PathDistance(a, a), ShouldEqual, 0)
		})
	})

	Convey("Given paths of unequal length", t, func() {
		a := geometry.Path{{X: 0, Y: 0}}
		b := geometry.Path{{X: 0, Y: 0}, {X: 1, Y: 1}}

		So(func() { geometry.PathDistance(a, b) }, ShouldPanic)
	})
}

func TestPathHelpers(t *testing.T) {
	Convey("Given a path", t, func() {
		p := geometry.Path{{X: 1, Y: 2}, {X: 3, Y: 4}}

		Convey("Then Scale, Translate and Clone return new paths", func() {
			So(p.Scale(2), ShouldResemble, geometry.Path{{X: 2, Y: 4}, {X: 6, Y: 8}})
			So(p.Translate(1, -1), ShouldResemble, geometry.Path{{X: 2, Y: 1}, {X: 4, Y: 3}})
			c := p.Clone()
			c[0].X = 100
			So(p[0].X, ShouldEqual, 1)
		})

		Convey("Then Finite detects NaN and infinities", func() {
			So(p.Finite(), ShouldBeTrue)
			So(geometry.Path{{X: math.NaN()}}.Finite(), ShouldBeFalse)
			So(geometry.Path{{Y: math.Inf(1)}}.Finite(), ShouldBeFalse)
		})
	})
}
