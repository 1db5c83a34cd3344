package sim

import (
	"fmt"

	"github.com/san-kum/nbody/internal/nbody"
)

type Metric interface {
	Name() string
	Observe(s nbody.System, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s nbody.System, t float64)
}

type Config struct {
	Dt    float64
	Steps int
	// SampleEvery records every k-th state; 0 or 1 records all of them.
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Steps:         1000,
		SampleEvery:   1,
		ValidateState: true,
	}
}

type Result struct {
	States      []nbody.System
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// recordFinal appends the last completed state unless sampling already
// recorded it.
func (r *Result) recordFinal(x nbody.System, t float64) {
	if n := len(r.Times); n > 0 && r.Times[n-1] == t {
		return
	}
	r.States = append(r.States, x)
	r.Times = append(r.Times, t)
}

// Final returns the last recorded state.
func (r *Result) Final() nbody.System {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return ErrUnstable
}
