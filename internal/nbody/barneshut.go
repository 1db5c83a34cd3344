package nbody

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// BarnesHut approximates the field with a quadtree. Theta is the opening
// angle; Theta == 0 degenerates to the exact sum. Only intended for large N,
// the exact Pairwise field remains the default everywhere.
type BarnesHut struct {
	Theta float64
}

func NewBarnesHut(theta float64) *BarnesHut {
	return &BarnesHut{Theta: theta}
}

func (bh *BarnesHut) Name() string { return "barneshut" }

type particle struct {
	pos  r2.Vec
	mass float64
}

func (q *particle) Coord2() r2.Vec { return q.pos }
func (q *particle) Mass() float64  { return q.mass }

func (bh *BarnesHut) Accelerations(bodies []Body, p Params) []Vec2 {
	ps := make([]barneshut.Particle2, len(bodies))
	for i, b := range bodies {
		ps[i] = &particle{pos: b.Pos.R2(), mass: b.Mass}
	}

	plane, err := barneshut.NewPlane(ps)
	if err != nil {
		return Pairwise{}.Accelerations(bodies, p)
	}

	kernel := softenedGravity(p)
	acc := make([]Vec2, len(bodies))
	for i, q := range ps {
		acc[i] = FromR2(plane.ForceOn(q, bh.Theta, kernel))
	}
	return acc
}

// softenedGravity returns acceleration rather than force: the mass of the
// body being acted on is ignored.
func softenedGravity(p Params) barneshut.Force2 {
	eps2 := p.Softening * p.Softening
	return func(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		if p1 == p2 {
			return r2.Vec{}
		}
		d2 := v.X*v.X + v.Y*v.Y + eps2
		f := p.G * m2 / (d2 * math.Sqrt(d2))
		return r2.Vec{X: v.X * f, Y: v.Y * f}
	}
}
