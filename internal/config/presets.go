package config

import (
	"math"
	"sort"
)

var Presets = map[string]*Config{
	"three_body": DefaultConfig(),
	"figure_eight": {
		Name: "figure_eight", Integrator: "leapfrog", Field: DefaultField,
		Dt: 0.001, Steps: 6326, SampleEvery: 10, G: 1, Softening: 0,
		Bodies: []BodyConfig{
			{Mass: 1, Pos: []float64{-0.97000436, 0.24308753}, Vel: []float64{0.466203685, 0.43236573}},
			{Mass: 1, Pos: []float64{0.97000436, -0.24308753}, Vel: []float64{0.466203685, 0.43236573}},
			{Mass: 1, Pos: []float64{0, 0}, Vel: []float64{-0.93240737, -0.86473146}},
		},
	},
	"binary": {
		Name: "binary", Integrator: "leapfrog", Field: DefaultField,
		Dt: 0.001, Steps: 4443, SampleEvery: 10, G: 1, Softening: 0,
		Bodies: []BodyConfig{
			{Mass: 1, Pos: []float64{0.5, 0}, Vel: []float64{0, math.Sqrt(0.5)}},
			{Mass: 1, Pos: []float64{-0.5, 0}, Vel: []float64{0, -math.Sqrt(0.5)}},
		},
	},
	"solar": solarPreset(),
	"ring":  ringPreset(12),
}

// solarPreset is a heavy central body with three light planets on circular
// orbits.
func solarPreset() *Config {
	cfg := &Config{
		Name: "solar", Integrator: "rk4", Field: DefaultField,
		Dt: 0.001, Steps: 20000, SampleEvery: 50, G: 1, Softening: 1e-3,
		Bodies: []BodyConfig{{Mass: 1000, Pos: []float64{0, 0}, Vel: []float64{0, 0}}},
	}
	for _, r := range []float64{1, 1.8, 3} {
		v := math.Sqrt(cfg.G * 1000 / r)
		cfg.Bodies = append(cfg.Bodies, BodyConfig{Mass: 1e-3, Pos: []float64{r, 0}, Vel: []float64{0, v}})
	}
	return cfg
}

// ringPreset places n equal bodies on the unit circle with tangential
// velocities.
func ringPreset(n int) *Config {
	cfg := &Config{
		Name: "ring", Integrator: "leapfrog", Field: "parallel",
		Dt: 0.001, Steps: 5000, SampleEvery: 25, G: 1, Softening: 0.05,
		Bodies: make([]BodyConfig, n),
	}
	for i := 0; i < n; i++ {
		angle := float64(i) * 2.0 * math.Pi / float64(n)
		cfg.Bodies[i] = BodyConfig{
			Mass: 1.0,
			Pos:  []float64{math.Cos(angle), math.Sin(angle)},
			Vel:  []float64{-math.Sin(angle) * 0.5, math.Cos(angle) * 0.5},
		}
	}
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
