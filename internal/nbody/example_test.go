package nbody_test

import (
	"fmt"

	"github.com/san-kum/nbody/internal/integrators"
	"github.com/san-kum/nbody/internal/nbody"
)

func Example() {
	sys, err := nbody.New(
		[]float64{1, 1, 1},
		[]nbody.Vec2{{X: -1}, {X: 1}, {Y: 0.8}},
		[]nbody.Vec2{{X: 0.3, Y: 0.2}, {X: -0.3, Y: 0.2}, {Y: -0.4}},
	)
	if err != nil {
		panic(err)
	}

	sys = integrators.Step(sys, 0.01, nbody.DefaultParams())

	_, pos, _, _ := sys.BodyState(0)
	fmt.Printf("%.3f %.3f\n", pos.X, pos.Y)
	// Output: -0.997 0.002
}
