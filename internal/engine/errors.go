package engine

import "errors"

// Domain errors for engine operations.
var (
	// ErrBodyCount indicates a reset with a non-positive body count.
	ErrBodyCount = errors.New("engine: body count must be positive")

	// ErrParameterBounds indicates a parameter value outside its valid range.
	ErrParameterBounds = errors.New("engine: parameter out of valid bounds")

	// ErrBoundaryMode indicates an unrecognized boundary mode.
	ErrBoundaryMode = errors.New("engine: unknown boundary mode")
)
