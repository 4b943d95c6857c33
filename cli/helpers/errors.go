package helpers

import (
	"errors"
	"fmt"
)

// Define sentinel errors for the exit conditions of a run
var (
	// ErrNoPaths is returned when a command that needs paths got none
	ErrNoPaths = errors.New("no paths given")

	// ErrCheckViolations is returned by check when a file would change
	ErrCheckViolations = errors.New("files need flattening")

	// ErrFailedFiles is returned in strict mode when any file failed
	ErrFailedFiles = errors.New("some files could not be processed")
)

// BatchError reports how many files tripped a sentinel condition
type BatchError struct {
	Kind  error
	Count int
}

func (e *BatchError) Error() string {
	noun := "files"
	if e.Count == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%v: %d %s", e.Kind, e.Count, noun)
}

func (e *BatchError) Is(target error) bool {
	return target == e.Kind
}

// NewBatchError wraps kind with a file count
func NewBatchError(kind error, count int) error {
	return &BatchError{Kind: kind, Count: count}
}
