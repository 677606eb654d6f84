package growth

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateDistribution: the total growth weight over the frontier is
	// numerically zero, there is nothing to sample from.
	ErrDegenerateDistribution = errors.New("growth: degenerate growth distribution")

	ErrInvalidConfig = errors.New("growth: invalid configuration")

	// ErrFinished is returned by Step once the run reached a terminal state.
	ErrFinished = errors.New("growth: run already finished")
)

// StepError records the growth step at which a run failed.
type StepError struct {
	Step int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("growth step %d: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
