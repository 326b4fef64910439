package service

import (
	"errors"
	"fmt"
)

var (
	// ErrSaveFailed wraps every persistence failure reported by a mutation.
	ErrSaveFailed      = errors.New("save failed")
	ErrProjectNotFound = errors.New("project not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
)

func projectNotFound(id int) error {
	return fmt.Errorf("project #%d: %w", id, ErrProjectNotFound)
}
