package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/nbody/internal/nbody"
)

// circularBinary returns two unit masses one unit apart on a circular orbit
// about the origin, angular frequency sqrt(2) with G = 1.
func circularBinary(t testing.TB) nbody.System {
	t.Helper()
	v := math.Sqrt(0.5)
	s, err := nbody.New(
		[]float64{1, 1},
		[]nbody.Vec2{{X: 0.5}, {X: -0.5}},
		[]nbody.Vec2{{Y: v}, {Y: -v}},
	)
	if err != nil {
		t.Fatalf("failed to build binary: %v", err)
	}
	return s
}

var unsoftened = nbody.Params{G: 1, Softening: 0}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	s := circularBinary(t)
	dt := 0.001
	steps := 1000

	for i := 0; i < steps; i++ {
		s = integ.Step(s, dt, unsoftened, nbody.Pairwise{})
	}

	omega := math.Sqrt2
	tEnd := float64(steps) * dt
	expected := nbody.Vec2{X: 0.5 * math.Cos(omega*tEnd), Y: 0.5 * math.Sin(omega*tEnd)}

	if d := s[0].Pos.Sub(expected).Magnitude(); d > 1e-6 {
		t.Errorf("position error too large: got %v, expected %v", s[0].Pos, expected)
	}
	if math.Abs(s[0].Vel.Magnitude()-math.Sqrt(0.5)) > 1e-6 {
		t.Errorf("speed drifted: %v", s[0].Vel.Magnitude())
	}
}

func energyDrift(t *testing.T, integ nbody.Integrator, steps int, dt float64) float64 {
	t.Helper()
	s := circularBinary(t)
	e0 := s.Energy(unsoftened)

	for i := 0; i < steps; i++ {
		s = integ.Step(s, dt, unsoftened, nbody.Pairwise{})
	}

	if !s.IsValid() {
		t.Fatalf("%s produced invalid state", integ.Name())
	}
	return math.Abs(s.Energy(unsoftened)-e0) / math.Abs(e0)
}

func TestEnergyDrift_ByIntegrator(t *testing.T) {
	const steps, dt = 5000, 0.001

	euler := energyDrift(t, NewEuler(), steps, dt)
	symplectic := energyDrift(t, NewSymplecticEuler(), steps, dt)
	leapfrog := energyDrift(t, NewLeapfrog(), steps, dt)
	verlet := energyDrift(t, NewVerlet(), steps, dt)
	rk4 := energyDrift(t, NewRK4(), steps, dt)

	t.Logf("drift euler=%e symplectic=%e leapfrog=%e verlet=%e rk4=%e", euler, symplectic, leapfrog, verlet, rk4)

	if leapfrog >= euler {
		t.Errorf("leapfrog drift %e should be below euler drift %e", leapfrog, euler)
	}
	if symplectic >= euler {
		t.Errorf("symplectic drift %e should be below euler drift %e", symplectic, euler)
	}
	if leapfrog > 1e-5 || verlet > 1e-5 {
		t.Errorf("second-order drift too high: leapfrog=%e verlet=%e", leapfrog, verlet)
	}
	if rk4 > 1e-8 {
		t.Errorf("rk4 drift too high: %e", rk4)
	}
}

func TestVerletMatchesLeapfrog(t *testing.T) {
	s := circularBinary(t)
	a := NewVerlet().Step(s, 0.01, unsoftened, nbody.Pairwise{})
	b := NewLeapfrog().Step(s, 0.01, unsoftened, nbody.Pairwise{})

	for i := range a {
		if d := a[i].Pos.Sub(b[i].Pos).Magnitude(); d > 1e-12 {
			t.Errorf("body %d position differs by %e", i, d)
		}
		if d := a[i].Vel.Sub(b[i].Vel).Magnitude(); d > 1e-12 {
			t.Errorf("body %d velocity differs by %e", i, d)
		}
	}
}

func TestIntegrators_PreserveMassAndInput(t *testing.T) {
	integs := []nbody.Integrator{NewEuler(), NewSymplecticEuler(), NewLeapfrog(), NewVerlet(), NewRK4()}

	for _, integ := range integs {
		t.Run(integ.Name(), func(t *testing.T) {
			s := threeBodyScene(t)
			before := s.Clone()

			next := integ.Step(s, 0.01, nbody.DefaultParams(), nbody.Pairwise{})

			if len(next) != len(s) {
				t.Fatalf("expected %d bodies, got %d", len(s), len(next))
			}
			for i := range s {
				if s[i] != before[i] {
					t.Errorf("input body %d modified", i)
				}
				if next[i].Mass != s[i].Mass {
					t.Errorf("body %d mass changed", i)
				}
			}
		})
	}
}
