package nbody

// Integrator advances a whole System by one fixed step. The force field is
// its only physics dependency, so new schemes never touch the kernel.
//
// Implementations must read only s and return a newly allocated System.
// An instance may keep scratch buffers between steps, so it must not be
// shared by runs that step concurrently; give each run its own instance.
type Integrator interface {
	Name() string
	Step(s System, dt float64, p Params, f ForceField) System
}
