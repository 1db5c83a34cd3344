package metrics

import (
	"math"

	"github.com/san-kum/nbody/internal/nbody"
)

// MomentumDrift reports the largest absolute change in total linear
// momentum. For an isolated system only round-off should show up here.
type MomentumDrift struct {
	initial  nbody.Vec2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(s nbody.System, t float64) {
	p := s.Momentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Magnitude())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = nbody.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}

// AngularMomentumDrift is relative to the first sample, or absolute when
// the system starts with zero angular momentum.
type AngularMomentumDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{}
}

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(s nbody.System, t float64) {
	l := s.AngularMomentum()
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++

	drift := math.Abs(l - a.initial)
	if a.initial != 0 {
		drift /= math.Abs(a.initial)
	}
	a.maxDrift = math.Max(a.maxDrift, drift)
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.maxDrift = 0
	a.samples = 0
}
