package strokesim

import (
	"errors"
	"testing"

	"github.com/okian/geodraw/internal/domain/normalize"
	"github.com/okian/geodraw/internal/domain/recognizer"
	"github.com/okian/geodraw/internal/domain/template"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a := NewGenerator(7)
		b := NewGenerator(7)

		Convey("Then they should produce the same strokes", func() {
			for i := 0; i < 20; i++ {
				So(a.Next(), ShouldResemble, b.Next())
			}
		})
	})

	Convey("Given a generator over the built-in shapes", t, func() {
		g := NewGenerator(1)

		Convey("Then it should know every built-in shape", func() {
			So(g.Names(), ShouldResemble, []string{"triangle", "rectangle", "circle"})
		})

		Convey("When asked for an unknown shape", func() {
			_, err := g.Shape("hexagon")

			Convey("Then it should fail", func() {
				So(errors.Is(err, ErrUnknownShape), ShouldBeTrue)
			})
		})

		Convey("When drawing a shape", func() {
			p, err := g.Shape("circle")
			So(err, ShouldBeNil)

			Convey("Then it should have a realistic point count", func() {
				So(len(p), ShouldBeBetweenOrEqual, minSamples, minSamples+sampleSpread-1)
				So(p.Finite(), ShouldBeTrue)
			})
		})

		Convey("When drawing a scribble", func() {
			p := g.Scribble()

			Convey("Then it should have a realistic point count", func() {
				So(len(p), ShouldBeBetweenOrEqual, scribbleMin, scribbleMin+scribbleSpread-1)
			})
		})
	})

	Convey("Given scribble ratios at the extremes", t, func() {
		Convey("Then a ratio of one should only scribble", func() {
			g := NewGenerator(3, WithScribbleRatio(1))
			for i := 0; i < 20; i++ {
				So(g.Next().Shape, ShouldBeEmpty)
			}
		})

		Convey("And a ratio of zero should never scribble", func() {
			g := NewGenerator(3, WithScribbleRatio(0))
			for i := 0; i < 20; i++ {
				So(g.Next().Shape, ShouldNotBeEmpty)
			}
		})
	})
}

func TestGeneratedShapesAreRecognized(t *testing.T) {
	Convey("Given a recognizer and a generator over the same shapes", t, func() {
		nz := normalize.New()
		store, err := template.Build(template.DefaultDefinitions(), nz)
		So(err, ShouldBeNil)
		r, err := recognizer.New(store, recognizer.WithNormalizer(nz))
		So(err, ShouldBeNil)
		g := NewGenerator(42)

		Convey("Then rotated, scaled and jittered shapes should be recognized", func() {
			for _, name := range g.Names() {
				for i := 0; i < 10; i++ {
					p, err := g.Shape(name)
					So(err, ShouldBeNil)

					res, err := r.Recognize(p)
					So(err, ShouldBeNil)
					So(res.Name, ShouldEqual, name)
					So(res.Score, ShouldBeGreaterThanOrEqualTo, 0.82)
				}
			}
		})
	})
}
