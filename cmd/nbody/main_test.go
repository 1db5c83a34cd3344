package main

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/nbody"
)

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"dt=0.01, 0.005", "softening=0"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"dt", "softening"}) {
		t.Errorf("names = %v", names)
	}
	want := [][]float64{{0.01, 0.005}, {0}}
	if !reflect.DeepEqual(ranges, want) {
		t.Errorf("ranges = %v, want %v", ranges, want)
	}

	for _, bad := range []string{"dt", "dt=a,b", "dt="} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestWriteFinal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "next.yaml")
	saveFinal = path
	t.Cleanup(func() { saveFinal = "" })

	cfg := config.DefaultConfig()
	s := nbody.System{
		{Mass: 2, Pos: nbody.Vec2{X: 0.5, Y: -1}, Vel: nbody.Vec2{X: 0.1}},
		{Mass: 3, Pos: nbody.Vec2{X: -0.25}, Vel: nbody.Vec2{Y: 0.2}},
	}
	if err := writeFinal(cfg, s); err != nil {
		t.Fatal(err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := loaded.System()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Errorf("bodies = %v, want %v", got, s)
	}
	if loaded.Integrator != cfg.Integrator || loaded.Dt != cfg.Dt {
		t.Error("run settings were not carried over")
	}
	if len(cfg.Bodies) != 3 {
		t.Error("source config was modified")
	}

	s[0].Pos.X = math.NaN()
	if err := writeFinal(cfg, s); err == nil {
		t.Error("non-finite state should not be written")
	}
}
