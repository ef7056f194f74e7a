package application

import (
	"errors"
	"fmt"

	"studybuddy/internal/ports"
)

// Sentinel errors for common conditions
var (
	ErrNotFound             = ports.ErrNotFound
	ErrInvalidInput         = errors.New("invalid input")
	ErrNoVocabulary         = errors.New("no vocabulary loaded")
	ErrNoRecords            = errors.New("no records stored")
	ErrGeneratorUnavailable = errors.New("card generator unavailable")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// RunError represents a failure to load a clustering run
type RunError struct {
	RunID  string
	Reason string
}

func (e *RunError) Error() string {
	if e.RunID == "" {
		return fmt.Sprintf("cannot load latest run: %s", e.Reason)
	}
	return fmt.Sprintf("cannot load run %s: %s", e.RunID, e.Reason)
}

func (e *RunError) Is(target error) bool {
	return target == ErrNotFound
}
