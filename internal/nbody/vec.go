package nbody

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a point or displacement in the plane.
type Vec2 struct {
	X, Y float64
}

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns a - b, so pj.Sub(pi) points from i toward j.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func (a Vec2) Scale(k float64) Vec2 {
	return Vec2{a.X * k, a.Y * k}
}

func (a Vec2) Magnitude() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y)
}

func (a Vec2) MagnitudeSq() float64 {
	return a.X*a.X + a.Y*a.Y
}

func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Cross returns the z component of the 3D cross product a × b.
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

func (a Vec2) IsFinite() bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) && !math.IsNaN(a.Y) && !math.IsInf(a.Y, 0)
}

// R2 converts to the gonum spatial vector type.
func (a Vec2) R2() r2.Vec {
	return r2.Vec{X: a.X, Y: a.Y}
}

func FromR2(v r2.Vec) Vec2 {
	return Vec2{v.X, v.Y}
}

func (a Vec2) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", a.X, a.Y)
}
