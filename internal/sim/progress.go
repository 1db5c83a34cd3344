package sim

import (
	"log/slog"

	"github.com/san-kum/nbody/internal/nbody"
)

// ProgressLogger is an Observer that logs every tenth of a run at info
// level.
type ProgressLogger struct {
	logger *slog.Logger
	steps  int
	every  int
	seen   int
}

var _ Observer = (*ProgressLogger)(nil)

func NewProgressLogger(logger *slog.Logger, steps int) *ProgressLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressLogger{logger: logger, steps: steps, every: max(steps/10, 1)}
}

func (p *ProgressLogger) OnStep(s nbody.System, t float64) {
	p.seen++
	if p.seen%p.every != 0 {
		return
	}
	p.logger.Info("progress",
		"step", p.seen,
		"steps", p.steps,
		"t", t,
		"kinetic", s.KineticEnergy(),
	)
}
