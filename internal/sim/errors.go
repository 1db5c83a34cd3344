package sim

import "errors"

var (
	// ErrInvalidConfig indicates a non-positive dt or step count, or an
	// empty initial state.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")

	// ErrUnstable indicates the state stopped being finite.
	ErrUnstable = errors.New("sim: simulation unstable (NaN or Inf detected)")
)
