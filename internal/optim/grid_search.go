// Package optim searches run settings for the lowest value of a metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/experiment"
)

// Setter applies one grid value to a config.
type Setter func(cfg *config.Config, v float64)

var Setters = map[string]Setter{
	"dt":        func(c *config.Config, v float64) { c.Dt = v },
	"softening": func(c *config.Config, v float64) { c.Softening = v },
	"theta":     func(c *config.Config, v float64) { c.Theta = v },
	"g":         func(c *config.Config, v float64) { c.G = v },
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

// Point is one evaluated grid cell.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("grid: %d params but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Setters[name]; !ok {
			return nil, fmt.Errorf("grid: unknown param %q", name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("grid: empty range for %q", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs base with every combination of grid values and returns the
// combination with the smallest metric plus every evaluated point. Failed
// or unstable runs are recorded but never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, r *experiment.Registry, metricName string) (Point, []Point, error) {
	best := Point{Value: math.Inf(1)}
	var points []Point

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		p := g.evaluate(ctx, base, r, metricName, params)
		if errors.Is(p.Err, context.Canceled) || errors.Is(p.Err, context.DeadlineExceeded) {
			return p.Err
		}
		points = append(points, p)
		if p.Err == nil && p.Value < best.Value {
			best = p
		}
		return nil
	})
	if err != nil {
		return Point{}, points, err
	}
	if best.Params == nil {
		return Point{}, points, fmt.Errorf("grid: no run produced %q", metricName)
	}
	return best, points, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, r *experiment.Registry, metricName string, params map[string]float64) Point {
	p := Point{Params: params, Value: math.NaN()}

	cfg := base.Clone()
	for name, v := range params {
		Setters[name](cfg, v)
	}

	exp := experiment.New(cfg)
	if p.Err = exp.Setup(r, nil); p.Err != nil {
		return p
	}
	result, err := exp.Run(ctx)
	if err != nil {
		p.Err = err
		return p
	}
	if len(result.Errors) > 0 {
		p.Err = result.Errors[0]
		return p
	}

	val, ok := result.Metrics[metricName]
	if !ok {
		p.Err = fmt.Errorf("grid: unknown metric %q", metricName)
		return p
	}
	p.Value = val
	return p
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		if err := ctx.Err(); err != nil {
			return err
		}
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}
