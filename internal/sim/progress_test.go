package sim

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/san-kum/nbody/internal/integrators"
	"github.com/san-kum/nbody/internal/nbody"
)

func TestProgressLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	sim := New(integrators.NewEuler(), nbody.Pairwise{}, nbody.DefaultParams())
	sim.AddObserver(NewProgressLogger(logger, 50))

	if _, err := sim.Run(context.Background(), binary(t), Config{Dt: 0.01, Steps: 50}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Count(buf.String(), "msg=progress")
	if lines != 10 {
		t.Errorf("progress lines = %d, want 10\n%s", lines, buf.String())
	}
	if !strings.Contains(buf.String(), "step=50") {
		t.Error("last progress line should report step 50")
	}
}

func TestProgressLoggerShortRun(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressLogger(slog.New(slog.NewTextHandler(&buf, nil)), 3)
	for i := range 3 {
		p.OnStep(binary(t), float64(i))
	}
	if n := strings.Count(buf.String(), "msg=progress"); n != 3 {
		t.Errorf("progress lines = %d, want 3", n)
	}
}
