package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/nbody/internal/integrators"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/nbody"
	"github.com/san-kum/nbody/internal/sim"
)

// FieldOptions carries the knobs of the non-default force fields.
type FieldOptions struct {
	Theta   float64
	Workers int
}

type Registry struct {
	integrators map[string]func() nbody.Integrator
	fields      map[string]func(FieldOptions) nbody.ForceField
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() nbody.Integrator),
		fields:      make(map[string]func(FieldOptions) nbody.ForceField),
	}

	r.integrators["euler"] = func() nbody.Integrator { return integrators.NewEuler() }
	r.integrators["symplectic"] = func() nbody.Integrator { return integrators.NewSymplecticEuler() }
	r.integrators["leapfrog"] = func() nbody.Integrator { return integrators.NewLeapfrog() }
	r.integrators["verlet"] = func() nbody.Integrator { return integrators.NewVerlet() }
	r.integrators["rk4"] = func() nbody.Integrator { return integrators.NewRK4() }

	r.fields["pairwise"] = func(FieldOptions) nbody.ForceField { return nbody.Pairwise{} }
	r.fields["parallel"] = func(o FieldOptions) nbody.ForceField { return nbody.NewParallelPairwise(o.Workers) }
	r.fields["barneshut"] = func(o FieldOptions) nbody.ForceField { return nbody.NewBarnesHut(o.Theta) }

	return r
}

func (r *Registry) GetIntegrator(name string) (nbody.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, r.ListIntegrators())
	}
	return fn(), nil
}

func (r *Registry) GetField(name string, opts FieldOptions) (nbody.ForceField, error) {
	fn, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("unknown force field: %s (available: %v)", name, r.ListFields())
	}
	return fn(opts), nil
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListFields() []string {
	return sortedKeys(r.fields)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh set of conservation metrics.
func (r *Registry) DefaultMetrics(params nbody.Params) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(params),
		metrics.NewEnergyDrift(params),
		metrics.NewEnergyScatter(params),
		metrics.NewMomentumDrift(),
		metrics.NewAngularMomentumDrift(),
		metrics.NewStability(100.0),
	}
}
