package nbody

import (
	"fmt"
	"math"
)

// ForceField computes the acceleration of every body for one snapshot.
// Implementations must only read bodies and return a fresh slice.
type ForceField interface {
	Name() string
	Accelerations(bodies []Body, p Params) []Vec2
}

// AccelerationOn returns the acceleration of body i due to every other body
// under the softened inverse-square law. It does not modify bodies.
//
// With p.Softening == 0 two coincident bodies yield a non-finite result;
// that is propagated, not reported.
func AccelerationOn(i int, bodies []Body, p Params) (Vec2, error) {
	if i < 0 || i >= len(bodies) {
		return Vec2{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(bodies))
	}
	return accelerationOn(i, bodies, p), nil
}

func accelerationOn(i int, bodies []Body, p Params) Vec2 {
	var acc Vec2
	pi := bodies[i].Pos
	eps2 := p.Softening * p.Softening

	for j := range bodies {
		if j == i {
			continue
		}

		r := bodies[j].Pos.Sub(pi)
		dist := r.Magnitude()
		distSoft := math.Sqrt(dist*dist + eps2)

		factor := p.G * bodies[j].Mass / (distSoft * distSoft * distSoft)
		acc = acc.Add(r.Scale(factor))
	}

	return acc
}

// Pairwise is the exact O(N²) field.
type Pairwise struct{}

func (Pairwise) Name() string { return "pairwise" }

func (Pairwise) Accelerations(bodies []Body, p Params) []Vec2 {
	acc := make([]Vec2, len(bodies))
	for i := range bodies {
		acc[i] = accelerationOn(i, bodies, p)
	}
	return acc
}
