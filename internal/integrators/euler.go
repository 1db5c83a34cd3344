package integrators

import "github.com/san-kum/nbody/internal/nbody"

// Euler is the classic explicit scheme: velocities take the pre-step
// acceleration and positions advance with the pre-step velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(s nbody.System, dt float64, p nbody.Params, f nbody.ForceField) nbody.System {
	acc := f.Accelerations(s, p)
	result := make(nbody.System, len(s))
	for i, b := range s {
		result[i] = nbody.Body{
			Mass: b.Mass,
			Pos:  b.Pos.Add(b.Vel.Scale(dt)),
			Vel:  b.Vel.Add(acc[i].Scale(dt)),
		}
	}
	return result
}

// SymplecticEuler advances positions with the updated velocity.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Name() string { return "symplectic" }

func (e *SymplecticEuler) Step(s nbody.System, dt float64, p nbody.Params, f nbody.ForceField) nbody.System {
	acc := f.Accelerations(s, p)
	result := make(nbody.System, len(s))
	for i, b := range s {
		vel := b.Vel.Add(acc[i].Scale(dt))
		result[i] = nbody.Body{
			Mass: b.Mass,
			Pos:  b.Pos.Add(vel.Scale(dt)),
			Vel:  vel,
		}
	}
	return result
}

// Step advances s by one explicit Euler step using the exact pairwise field.
func Step(s nbody.System, dt float64, p nbody.Params) nbody.System {
	return NewEuler().Step(s, dt, p, nbody.Pairwise{})
}
