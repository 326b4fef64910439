package workflow

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/planboard/internal/domain"
)

var (
	ErrBlankName     = errors.New("task name is required")
	ErrDuplicateTask = errors.New("a task with that name already exists in this phase")
	ErrTaskNotFound  = errors.New("task not found")
	ErrRequiredTask  = errors.New("required tasks cannot be renamed or removed")
	ErrUnknownPhase  = errors.New("unknown workflow phase")
)

// TransitionError explains why a status change was refused.
type TransitionError struct {
	From   domain.Status
	To     domain.Status
	Reason string
}

func (e *TransitionError) Error() string {
	return e.Reason
}

// Decision is the outcome of a transition check.
type Decision struct {
	OK      bool
	Message string
}

func allow() Decision { return Decision{OK: true} }

func deny(format string, args ...any) Decision {
	return Decision{Message: fmt.Sprintf(format, args...)}
}

// Err converts a refusal into a *TransitionError; nil when allowed.
func (d Decision) Err(from, to domain.Status) error {
	if d.OK {
		return nil
	}
	return &TransitionError{From: from, To: to, Reason: d.Message}
}
