package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/nbody/internal/nbody"
)

// EnergyScatter keeps the energy series and reports its standard deviation
// relative to its mean. Unlike EnergyDrift it is insensitive to a single
// outlier at the start of the run.
type EnergyScatter struct {
	params nbody.Params
	series []float64
}

func NewEnergyScatter(params nbody.Params) *EnergyScatter {
	return &EnergyScatter{params: params}
}

func (e *EnergyScatter) Name() string { return "energy_scatter" }

func (e *EnergyScatter) Observe(s nbody.System, t float64) {
	e.series = append(e.series, s.Energy(e.params))
}

func (e *EnergyScatter) Value() float64 {
	if len(e.series) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(e.series, nil)
	if mean == 0 {
		return std
	}
	return std / math.Abs(mean)
}

func (e *EnergyScatter) Reset() {
	e.series = e.series[:0]
}

// Summary describes a scalar series.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	s := Summary{Min: series[0], Max: series[0]}
	for _, v := range series[1:] {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	if len(series) == 1 {
		s.Mean = series[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(series, nil)
	return s
}

// EnergySeries returns the total energy of each state.
func EnergySeries(states []nbody.System, params nbody.Params) []float64 {
	out := make([]float64, len(states))
	for i, s := range states {
		out[i] = s.Energy(params)
	}
	return out
}
