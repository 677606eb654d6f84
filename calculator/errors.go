package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrConvergenceFailure: the iteration cap was reached before the L∞
	// change fell below the tolerance.
	ErrConvergenceFailure = errors.New("calculator: solver did not converge")

	// ErrInstability: a relaxed value became NaN or ±Inf.
	ErrInstability = errors.New("calculator: non-finite value during relaxation")

	ErrInvalidParameter = errors.New("calculator: invalid solver parameter")
)

// SolveError carries the solver state at the moment it gave up.
type SolveError struct {
	Iterations int
	Omega      float64
	Residual   float64
	Err        error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%v (iterations=%d omega=%.4f residual=%.3g)", e.Err, e.Iterations, e.Omega, e.Residual)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}
