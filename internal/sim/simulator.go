package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/nbody/internal/nbody"
)

// Simulator drives an integrator through a fixed number of steps. It owns
// everything the core leaves to the caller: the loop, cancellation,
// sampling and instability detection.
type Simulator struct {
	integrator nbody.Integrator
	field      nbody.ForceField
	params     nbody.Params
	metrics    []Metric
	observers  []Observer
	logger     *slog.Logger
}

func New(integrator nbody.Integrator, field nbody.ForceField, params nbody.Params) *Simulator {
	if field == nil {
		field = nbody.Pairwise{}
	}
	return &Simulator{
		integrator: integrator,
		field:      field,
		params:     params,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     slog.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) Integrator() nbody.Integrator { return s.integrator }
func (s *Simulator) Field() nbody.ForceField      { return s.field }
func (s *Simulator) Params() nbody.Params         { return s.params }

func (s *Simulator) Run(ctx context.Context, x0 nbody.System, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	capacity := cfg.Steps/every + 2
	result := &Result{
		States:  make([]nbody.System, 0, capacity),
		Times:   make([]float64, 0, capacity),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0

	result.States = append(result.States, x)
	result.Times = append(result.Times, t)

	initialEnergy := x.Energy(s.params)

	s.logger.Debug("run started",
		"integrator", s.integrator.Name(),
		"field", s.field.Name(),
		"bodies", len(x),
		"steps", cfg.Steps,
		"dt", cfg.Dt,
	)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			result.recordFinal(x, t)
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		newX := s.integrator.Step(x, cfg.Dt, s.params, s.field)

		if cfg.ValidateState && !newX.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			s.logger.Warn("state diverged", "step", i, "t", t)
			result.Errors = append(result.Errors, err)
			result.recordFinal(x, t)
			break
		}

		x = newX
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++

		if result.StepsTaken%every == 0 || result.StepsTaken == cfg.Steps {
			result.States = append(result.States, x)
			result.Times = append(result.Times, t)
		}
	}

	for _, m := range s.metrics {
		m.Observe(x, t)
	}

	finalEnergy := x.Energy(s.params)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run finished", "steps", result.StepsTaken, "energy_drift", result.EnergyDrift)

	return result, nil
}

func (s *Simulator) validate(x0 nbody.System, cfg Config) error {
	if len(x0) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidConfig)
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	}
	return nil
}
