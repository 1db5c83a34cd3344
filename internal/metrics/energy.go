package metrics

import (
	"math"

	"github.com/san-kum/nbody/internal/nbody"
	"github.com/san-kum/nbody/internal/sim"
)

var (
	_ sim.Metric = (*Energy)(nil)
	_ sim.Metric = (*EnergyDrift)(nil)
	_ sim.Metric = (*MomentumDrift)(nil)
	_ sim.Metric = (*AngularMomentumDrift)(nil)
)

// Energy reports the mean total energy over all observed states.
type Energy struct {
	name        string
	params      nbody.Params
	samples     int
	totalEnergy float64
}

func NewEnergy(params nbody.Params) *Energy {
	return &Energy{
		name:   "energy",
		params: params,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s nbody.System, t float64) {
	e.totalEnergy += s.Energy(e.params)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative deviation from the first
// observed energy.
type EnergyDrift struct {
	name          string
	params        nbody.Params
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(params nbody.Params) *EnergyDrift {
	return &EnergyDrift{
		name:   "energy_drift",
		params: params,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s nbody.System, t float64) {
	energy := s.Energy(e.params)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
