package cell

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("cell: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates the integration became numerically unstable.
	ErrUnstable = errors.New("cell: simulation unstable (non-finite state)")

	// ErrParameterBounds indicates a parameter value outside its valid range.
	ErrParameterBounds = errors.New("cell: parameter out of valid bounds")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("cell: dimension mismatch between state and system")
)

// SimError wraps an error with the step and time at which it occurred.
type SimError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
