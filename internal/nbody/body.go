package nbody

import "fmt"

// Body is a point mass. Mass never changes during a run.
type Body struct {
	Mass float64
	Pos  Vec2
	Vel  Vec2
}

// System is the ordered body list. Index i names the same body for the
// lifetime of a run; integrators always return a new System.
type System []Body

// Params holds the constants shared by every pairwise evaluation.
type Params struct {
	G         float64
	Softening float64
}

const (
	DefaultG         = 1.0
	DefaultSoftening = 1e-2
)

func DefaultParams() Params {
	return Params{G: DefaultG, Softening: DefaultSoftening}
}

// New builds a System from parallel slices of masses, positions and
// velocities. All three must have the same non-zero length and every mass
// must be positive.
func New(masses []float64, positions, velocities []Vec2) (System, error) {
	n := len(masses)
	if n == 0 {
		return nil, fmt.Errorf("%w: no bodies", ErrInvalidConfiguration)
	}
	if len(positions) != n || len(velocities) != n {
		return nil, fmt.Errorf("%w: %d masses, %d positions, %d velocities",
			ErrInvalidConfiguration, n, len(positions), len(velocities))
	}

	s := make(System, n)
	for i, m := range masses {
		if !(m > 0) {
			return nil, fmt.Errorf("%w: mass of body %d must be positive, got %g", ErrInvalidConfiguration, i, m)
		}
		s[i] = Body{Mass: m, Pos: positions[i], Vel: velocities[i]}
	}
	return s, nil
}

func (s System) Len() int { return len(s) }

// BodyState returns a copy of body i's mass, position and velocity.
func (s System) BodyState(i int) (mass float64, pos, vel Vec2, err error) {
	if i < 0 || i >= len(s) {
		return 0, Vec2{}, Vec2{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s))
	}
	b := s[i]
	return b.Mass, b.Pos, b.Vel, nil
}

func (s System) Clone() System {
	c := make(System, len(s))
	copy(c, s)
	return c
}

func (s System) Masses() []float64 {
	m := make([]float64, len(s))
	for i, b := range s {
		m[i] = b.Mass
	}
	return m
}

// Flatten lays the state out as [x, y, vx, vy] per body.
func (s System) Flatten() []float64 {
	out := make([]float64, 0, 4*len(s))
	for _, b := range s {
		out = append(out, b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y)
	}
	return out
}

// IsValid reports whether every position and velocity is finite.
func (s System) IsValid() bool {
	for _, b := range s {
		if !b.Pos.IsFinite() || !b.Vel.IsFinite() {
			return false
		}
	}
	return true
}
