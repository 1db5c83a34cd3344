package nbody

import "math"

// KineticEnergy returns Σ ½ m v².
func (s System) KineticEnergy() float64 {
	ke := 0.0
	for _, b := range s {
		ke += 0.5 * b.Mass * b.Vel.MagnitudeSq()
	}
	return ke
}

// PotentialEnergy uses the same softened separation as the force kernel.
func (s System) PotentialEnergy(p Params) float64 {
	pe := 0.0
	eps2 := p.Softening * p.Softening
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			r := math.Sqrt(s[j].Pos.Sub(s[i].Pos).MagnitudeSq() + eps2)
			pe -= p.G * s[i].Mass * s[j].Mass / r
		}
	}
	return pe
}

func (s System) Energy(p Params) float64 {
	return s.KineticEnergy() + s.PotentialEnergy(p)
}

// Momentum returns Σ m v.
func (s System) Momentum() Vec2 {
	var total Vec2
	for _, b := range s {
		total = total.Add(b.Vel.Scale(b.Mass))
	}
	return total
}

// AngularMomentum returns Σ m (r × v) about the origin.
func (s System) AngularMomentum() float64 {
	l := 0.0
	for _, b := range s {
		l += b.Mass * b.Pos.Cross(b.Vel)
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position.
func (s System) CenterOfMass() Vec2 {
	var c Vec2
	total := 0.0
	for _, b := range s {
		c = c.Add(b.Pos.Scale(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return Vec2{}
	}
	return c.Scale(1 / total)
}
