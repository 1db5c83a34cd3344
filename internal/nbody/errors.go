package nbody

import "errors"

// Domain errors for system construction and lookup.
var (
	// ErrInvalidConfiguration indicates mismatched input lengths, an empty
	// body list, or a non-positive mass.
	ErrInvalidConfiguration = errors.New("nbody: invalid configuration")

	// ErrIndexOutOfRange indicates a body index outside [0, N).
	ErrIndexOutOfRange = errors.New("nbody: body index out of range")
)
