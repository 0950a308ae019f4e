package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is a sentinel error for ownership/permission mismatches
var ErrUnauthorized = errors.New("unauthorized")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	// Legacy string-based errors still circulate in wrapped chains
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// ValidationError carries the complete list of violated rules so callers can
// surface every problem at once instead of the first one hit.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from the given violations.
func NewValidationError(violations []string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// AsValidationError unwraps a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// ExternalServiceError marks a failure of an external collaborator (Slack API,
// title generation) so the pipeline can distinguish it from storage failures.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
