package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/nbody/internal/nbody"
)

// Comparison runs the same initial state through several integrators at
// once. Each run gets its own Simulator since integrators keep scratch
// buffers.
type Comparison struct {
	field   nbody.ForceField
	params  nbody.Params
	metrics func() []Metric
}

func NewComparison(field nbody.ForceField, params nbody.Params, metrics func() []Metric) *Comparison {
	return &Comparison{field: field, params: params, metrics: metrics}
}

func (c *Comparison) Run(ctx context.Context, x0 nbody.System, cfg Config, integrators []nbody.Integrator) ([]*Result, error) {
	results := make([]*Result, len(integrators))

	g, ctx := errgroup.WithContext(ctx)
	for i, integ := range integrators {
		g.Go(func() error {
			s := New(integ, c.field, c.params)
			if c.metrics != nil {
				for _, m := range c.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, x0, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
