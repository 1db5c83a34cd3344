package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/nbody/internal/nbody"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "euler", cfg.Integrator)
	assert.Equal(t, "pairwise", cfg.Field)
	assert.Equal(t, 1.0, cfg.G)
	assert.Equal(t, 1e-2, cfg.Softening)
	assert.NoError(t, cfg.Validate())

	s, err := cfg.System()
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, nbody.Vec2{X: 0, Y: 0.8}, s[2].Pos)
	assert.Equal(t, nbody.Vec2{X: 0.3, Y: 0.2}, s[0].Vel)
}

func TestParse(t *testing.T) {
	data := []byte(`
integrator: rk4
dt: 0.005
steps: 200
softening: 0
bodies:
  - {mass: 2, pos: [0, 0], vel: [0, 0]}
  - {mass: 0.5, pos: [1, 0], vel: [0, 1.5]}
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "rk4", cfg.Integrator)
	assert.Equal(t, "pairwise", cfg.Field, "unset keys keep defaults")
	assert.Equal(t, 0.005, cfg.Dt)
	assert.Equal(t, 200, cfg.Steps)
	assert.Equal(t, 0.0, cfg.Softening)
	assert.Equal(t, 1.0, cfg.G)
	require.Len(t, cfg.Bodies, 2)

	s, err := cfg.System()
	require.NoError(t, err)
	assert.Equal(t, 0.5, s[1].Mass)
	assert.Equal(t, nbody.Vec2{X: 0, Y: 1.5}, s[1].Vel)

	assert.Equal(t, nbody.Params{G: 1, Softening: 0}, cfg.Params())
	simCfg := cfg.SimConfig()
	assert.Equal(t, 200, simCfg.Steps)
	assert.True(t, simCfg.ValidateState)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "dt: [1, 2"},
		{"zero dt", "dt: 0"},
		{"negative steps", "steps: -1"},
		{"negative softening", "softening: -0.1"},
		{"short vector", "bodies:\n  - {mass: 1, pos: [0], vel: [0, 0]}"},
		{"path in name", "name: ../outside"},
		{"hidden name", "name: .run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestSystem_InvalidMass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies[1].Mass = 0

	_, err := cfg.System()
	assert.ErrorIs(t, err, nbody.ErrInvalidConfiguration)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("figure_eight")
	require.NotNil(t, cfg)

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("binary")
	require.NotNil(t, cfg)
	assert.Equal(t, "leapfrog", cfg.Integrator)

	cfg.Bodies[0].Mass = 42
	assert.NotEqual(t, 42.0, GetPreset("binary").Bodies[0].Mass, "presets must not be shared")

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			require.NoError(t, cfg.Validate())

			s, err := cfg.System()
			require.NoError(t, err)
			assert.Equal(t, len(cfg.Bodies), s.Len())
		})
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	assert.Contains(t, presets, "three_body")
	assert.Contains(t, presets, "figure_eight")
	assert.IsIncreasing(t, presets)
}

func TestSetBodies(t *testing.T) {
	cfg := DefaultConfig()
	s, err := cfg.System()
	require.NoError(t, err)

	other := &Config{}
	other.SetBodies(s)
	assert.Equal(t, cfg.Bodies, other.Bodies)
}
