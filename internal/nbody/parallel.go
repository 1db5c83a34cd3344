package nbody

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelPairwise evaluates the exact field with bodies split across
// goroutines. Each worker writes only its own range of the output, so the
// result is bit-identical to Pairwise.
type ParallelPairwise struct {
	Workers  int
	MinChunk int
}

func NewParallelPairwise(workers int) *ParallelPairwise {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ParallelPairwise{Workers: workers, MinChunk: 8}
}

func (pp *ParallelPairwise) Name() string { return "parallel" }

func (pp *ParallelPairwise) Accelerations(bodies []Body, p Params) []Vec2 {
	n := len(bodies)
	acc := make([]Vec2, n)

	workers := pp.Workers
	if workers < 1 {
		workers = 1
	}
	minChunk := pp.MinChunk
	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		for i := range bodies {
			acc[i] = accelerationOn(i, bodies, p)
		}
		return acc
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				acc[i] = accelerationOn(i, bodies, p)
			}
			return nil
		})
	}
	_ = g.Wait()

	return acc
}
