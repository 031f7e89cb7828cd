package workflow

import (
	"errors"
	"fmt"

	"apiforge/internal/models"
)

var (
	ErrSandboxNotPassed = errors.New("sandbox tests have not passed")
	ErrNoGeneratedCode  = errors.New("no code has been generated")
	ErrWrongStep        = errors.New("action not available at the current step")
	ErrFinalStep        = errors.New("workflow is already at the final step")
)

// ValidationError reports a missing or malformed configuration field. The
// session is left unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PreconditionError reports an action attempted before its gate is satisfied.
// The session is left unchanged.
type PreconditionError struct {
	Action string
	Step   models.Step
	Err    error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot %s at step %d (%s): %v", e.Action, e.Step, e.Step, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

func precondition(action string, s *models.Session, err error) error {
	return &PreconditionError{Action: action, Step: s.Step, Err: err}
}
