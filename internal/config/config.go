package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbody/internal/nbody"
	"github.com/san-kum/nbody/internal/sim"
)

const (
	DefaultDt          = 0.01
	DefaultSteps       = 1000
	DefaultIntegrator  = "euler"
	DefaultField       = "pairwise"
	DefaultTheta       = 0.5
	DefaultSampleEvery = 1
)

type Config struct {
	Name        string       `yaml:"name"`
	Integrator  string       `yaml:"integrator"`
	Field       string       `yaml:"field"`
	Dt          float64      `yaml:"dt"`
	Steps       int          `yaml:"steps"`
	SampleEvery int          `yaml:"sample_every"`
	G           float64      `yaml:"g"`
	Softening   float64      `yaml:"softening"`
	Theta       float64      `yaml:"theta"`
	Workers     int          `yaml:"workers"`
	Bodies      []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Mass float64   `yaml:"mass"`
	Pos  []float64 `yaml:"pos,flow"`
	Vel  []float64 `yaml:"vel,flow"`
}

// DefaultConfig is the classic three-body scene with unit masses.
func DefaultConfig() *Config {
	return &Config{
		Name:        "three_body",
		Integrator:  DefaultIntegrator,
		Field:       DefaultField,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
		G:           nbody.DefaultG,
		Softening:   nbody.DefaultSoftening,
		Theta:       DefaultTheta,
		Bodies: []BodyConfig{
			{Mass: 1.0, Pos: []float64{-1.0, 0.0}, Vel: []float64{0.3, 0.2}},
			{Mass: 1.0, Pos: []float64{1.0, 0.0}, Vel: []float64{-0.3, 0.2}},
			{Mass: 1.0, Pos: []float64{0.0, 0.8}, Vel: []float64{0.0, -0.4}},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run settings and body vectors. Mass checks are left to
// nbody.New.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.Name, `/\`) || strings.HasPrefix(c.Name, ".") {
		return fmt.Errorf("config: name %q must be a plain directory name", c.Name)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Steps)
	}
	if c.G <= 0 {
		return fmt.Errorf("config: g must be positive, got %g", c.G)
	}
	if c.Softening < 0 {
		return fmt.Errorf("config: softening must not be negative, got %g", c.Softening)
	}
	for i, b := range c.Bodies {
		if len(b.Pos) != 2 || len(b.Vel) != 2 {
			return fmt.Errorf("config: body %d needs 2D pos and vel", i)
		}
	}
	return nil
}

func (c *Config) System() (nbody.System, error) {
	masses := make([]float64, len(c.Bodies))
	pos := make([]nbody.Vec2, len(c.Bodies))
	vel := make([]nbody.Vec2, len(c.Bodies))
	for i, b := range c.Bodies {
		if len(b.Pos) != 2 || len(b.Vel) != 2 {
			return nil, fmt.Errorf("%w: body %d needs 2D pos and vel", nbody.ErrInvalidConfiguration, i)
		}
		masses[i] = b.Mass
		pos[i] = nbody.Vec2{X: b.Pos[0], Y: b.Pos[1]}
		vel[i] = nbody.Vec2{X: b.Vel[0], Y: b.Vel[1]}
	}
	return nbody.New(masses, pos, vel)
}

func (c *Config) Params() nbody.Params {
	return nbody.Params{G: c.G, Softening: c.Softening}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Steps:         c.Steps,
		SampleEvery:   c.SampleEvery,
		ValidateState: true,
	}
}

// Clone returns a deep copy so presets can be edited safely.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		cp.Bodies[i] = BodyConfig{
			Mass: b.Mass,
			Pos:  append([]float64(nil), b.Pos...),
			Vel:  append([]float64(nil), b.Vel...),
		}
	}
	return &cp
}

// SetBodies replaces the body list from a System.
func (c *Config) SetBodies(s nbody.System) {
	c.Bodies = make([]BodyConfig, len(s))
	for i, b := range s {
		c.Bodies[i] = BodyConfig{
			Mass: b.Mass,
			Pos:  []float64{b.Pos.X, b.Pos.Y},
			Vel:  []float64{b.Vel.X, b.Vel.Y},
		}
	}
}
