package referee

import (
	"errors"
	"fmt"
)

// RuntimeError marks a failure of op-referee itself, as opposed to a contestant
// failing: a bad flag or roster, a metrics port that cannot be bound, or a
// results file that cannot be written. cmd maps it to exitcodes.RuntimeErr.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError reports whether err is or wraps a RuntimeError, including
// through the errors.Join that cliapp applies when Start and Stop both fail.
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return errors.As(err, &runtimeErr)
}
