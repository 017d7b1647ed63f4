package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDiverged indicates the trajectory left the physically plausible range.
	ErrDiverged = errors.New("dynamo: simulation diverged")

	// ErrInvalidInitial indicates an initial state that cannot be integrated.
	ErrInvalidInitial = errors.New("dynamo: invalid initial conditions")

	// ErrInvalidConfig indicates a time step or horizon the solver cannot use.
	ErrInvalidConfig = errors.New("dynamo: invalid solver configuration")
)

// DivergenceError reports which stock left the plausible range and when.
type DivergenceError struct {
	Year     float64
	Variable string
	Value    float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("state diverged at year %.1f: %s = %.3e", e.Year, e.Variable, e.Value)
}

func (e *DivergenceError) Unwrap() error {
	return ErrDiverged
}
