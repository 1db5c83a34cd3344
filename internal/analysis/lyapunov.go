// Package analysis holds trajectory diagnostics that need more than one run.
package analysis

import (
	"math"

	"github.com/san-kum/nbody/internal/nbody"
)

// LyapunovExponent estimates the largest Lyapunov exponent by following a
// copy of x0 whose first body is shifted by perturbation along x. After
// each step the separation in phase space (positions and velocities) is
// logged and rescaled back to the initial distance.
//
// λ ≈ Σ ln(d_k/d0) / (steps·dt). Positive values indicate chaos.
func LyapunovExponent(integ nbody.Integrator, field nbody.ForceField, p nbody.Params, x0 nbody.System, dt float64, steps int, perturbation float64) float64 {
	if x0.Len() == 0 || steps <= 0 || dt <= 0 || perturbation == 0 {
		return 0
	}
	if field == nil {
		field = nbody.Pairwise{}
	}

	d0 := math.Abs(perturbation)
	x := x0.Clone()
	xp := x0.Clone()
	xp[0].Pos.X += perturbation

	sumLog := 0.0
	count := 0
	for range steps {
		x = integ.Step(x, dt, p, field)
		xp = integ.Step(xp, dt, p, field)

		sep := separation(x, xp)
		if !(sep > 0) || math.IsInf(sep, 0) {
			break
		}
		sumLog += math.Log(sep / d0)
		count++

		scale := d0 / sep
		for i := range xp {
			xp[i].Pos = x[i].Pos.Add(xp[i].Pos.Sub(x[i].Pos).Scale(scale))
			xp[i].Vel = x[i].Vel.Add(xp[i].Vel.Sub(x[i].Vel).Scale(scale))
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}

func separation(a, b nbody.System) float64 {
	sum := 0.0
	for i := range a {
		sum += b[i].Pos.Sub(a[i].Pos).MagnitudeSq()
		sum += b[i].Vel.Sub(a[i].Vel).MagnitudeSq()
	}
	return math.Sqrt(sum)
}
