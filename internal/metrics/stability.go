package metrics

import (
	"github.com/san-kum/nbody/internal/nbody"
)

// Stability is the fraction of observed states in which every body stays
// within radius of the center of mass. Ejections pull it below 1.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x nbody.System, t float64) {
	s.samples++
	com := x.CenterOfMass()
	for _, b := range x {
		if b.Pos.Sub(com).Magnitude() > s.radius || !b.Pos.IsFinite() {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
