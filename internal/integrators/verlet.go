package integrators

import "github.com/san-kum/nbody/internal/nbody"

// Verlet is velocity Verlet: positions from the current acceleration,
// velocities from the average of old and new accelerations.
type Verlet struct {
	scratch nbody.System
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Step(s nbody.System, dt float64, p nbody.Params, f nbody.ForceField) nbody.System {
	n := len(s)
	if len(v.scratch) != n {
		v.scratch = make(nbody.System, n)
	}

	acc := f.Accelerations(s, p)
	halfDt2 := 0.5 * dt * dt

	for i, b := range s {
		v.scratch[i] = nbody.Body{
			Mass: b.Mass,
			Pos:  b.Pos.Add(b.Vel.Scale(dt)).Add(acc[i].Scale(halfDt2)),
			Vel:  b.Vel,
		}
	}

	accNew := f.Accelerations(v.scratch, p)

	halfDt := 0.5 * dt
	result := make(nbody.System, n)
	for i, b := range s {
		result[i] = nbody.Body{
			Mass: b.Mass,
			Pos:  v.scratch[i].Pos,
			Vel:  b.Vel.Add(acc[i].Add(accNew[i]).Scale(halfDt)),
		}
	}

	return result
}

// Leapfrog is the kick-drift-kick form.
type Leapfrog struct {
	scratch nbody.System
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(s nbody.System, dt float64, p nbody.Params, f nbody.ForceField) nbody.System {
	n := len(s)
	if len(l.scratch) != n {
		l.scratch = make(nbody.System, n)
	}

	acc := f.Accelerations(s, p)
	halfDt := dt * 0.5

	for i, b := range s {
		velHalf := b.Vel.Add(acc[i].Scale(halfDt))
		l.scratch[i] = nbody.Body{
			Mass: b.Mass,
			Pos:  b.Pos.Add(velHalf.Scale(dt)),
			Vel:  velHalf,
		}
	}

	accNew := f.Accelerations(l.scratch, p)

	result := make(nbody.System, n)
	for i, b := range l.scratch {
		result[i] = nbody.Body{
			Mass: b.Mass,
			Pos:  b.Pos,
			Vel:  b.Vel.Add(accNew[i].Scale(halfDt)),
		}
	}

	return result
}
