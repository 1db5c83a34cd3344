package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/nbody"
	"github.com/san-kum/nbody/internal/sim"
)

// Experiment binds a config to a ready-to-run simulator.
type Experiment struct {
	cfg       *config.Config
	initial   nbody.System
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(r *Registry, logger *slog.Logger) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	x0, err := e.cfg.System()
	if err != nil {
		return err
	}

	integ, err := r.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	field, err := r.GetField(e.cfg.Field, FieldOptions{Theta: e.cfg.Theta, Workers: e.cfg.Workers})
	if err != nil {
		return err
	}

	params := e.cfg.Params()
	e.initial = x0
	e.simulator = sim.New(integ, field, params)
	e.simulator.SetLogger(logger)
	for _, m := range r.DefaultMetrics(params) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.initial, e.cfg.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Initial() nbody.System {
	return e.initial
}
