package integrators

import "github.com/san-kum/nbody/internal/nbody"

// derivative holds d(pos)/dt and d(vel)/dt for every body.
type derivative struct {
	dPos []nbody.Vec2
	dVel []nbody.Vec2
}

type RK4 struct {
	k1, k2, k3, k4 derivative
	scratch        nbody.System
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.k1 = derivative{make([]nbody.Vec2, n), make([]nbody.Vec2, n)}
		r.k2 = derivative{make([]nbody.Vec2, n), make([]nbody.Vec2, n)}
		r.k3 = derivative{make([]nbody.Vec2, n), make([]nbody.Vec2, n)}
		r.k4 = derivative{make([]nbody.Vec2, n), make([]nbody.Vec2, n)}
		r.scratch = make(nbody.System, n)
	}
}

func (r *RK4) derive(s nbody.System, p nbody.Params, f nbody.ForceField, k derivative) {
	acc := f.Accelerations(s, p)
	for i, b := range s {
		k.dPos[i] = b.Vel
		k.dVel[i] = acc[i]
	}
}

// offset fills r.scratch with s + h*k.
func (r *RK4) offset(s nbody.System, k derivative, h float64) nbody.System {
	for i, b := range s {
		r.scratch[i] = nbody.Body{
			Mass: b.Mass,
			Pos:  b.Pos.Add(k.dPos[i].Scale(h)),
			Vel:  b.Vel.Add(k.dVel[i].Scale(h)),
		}
	}
	return r.scratch
}

func (r *RK4) Step(s nbody.System, dt float64, p nbody.Params, f nbody.ForceField) nbody.System {
	n := len(s)
	r.ensureScratch(n)

	r.derive(s, p, f, r.k1)
	r.derive(r.offset(s, r.k1, dt*0.5), p, f, r.k2)
	r.derive(r.offset(s, r.k2, dt*0.5), p, f, r.k3)
	r.derive(r.offset(s, r.k3, dt), p, f, r.k4)

	result := make(nbody.System, n)
	dt6 := dt / 6.0
	for i, b := range s {
		dPos := r.k1.dPos[i].Add(r.k2.dPos[i].Scale(2)).Add(r.k3.dPos[i].Scale(2)).Add(r.k4.dPos[i])
		dVel := r.k1.dVel[i].Add(r.k2.dVel[i].Scale(2)).Add(r.k3.dVel[i].Scale(2)).Add(r.k4.dVel[i])
		result[i] = nbody.Body{
			Mass: b.Mass,
			Pos:  b.Pos.Add(dPos.Scale(dt6)),
			Vel:  b.Vel.Add(dVel.Scale(dt6)),
		}
	}

	return result
}
