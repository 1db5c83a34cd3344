// Package nbody provides the core of a planar gravitational N-body simulator.
//
// The package defines the value types and the force kernel that every
// integrator builds on:
//
//   - [Vec2]: immutable 2D vector
//   - [Body]: point mass with position and velocity
//   - [System]: ordered body list advanced as a whole
//   - [ForceField]: computes every body's acceleration for one snapshot
//
// # Example
//
//	sys, _ := nbody.New(masses, positions, velocities)
//	for i := 0; i < steps; i++ {
//		sys = integrators.Step(sys, 0.01, nbody.DefaultParams())
//	}
//
// Step lives in package integrators, which implements [Integrator].
//
// # Thread Safety
//
// [AccelerationOn] only reads its body slice, so it can be called
// concurrently for different bodies against the same snapshot. Steps never
// write into the slice they read from.
package nbody
