package app

import (
	"errors"
	"fmt"

	"investPilot/internal/ports"
)

// ValidationError reports a malformed tool argument. It is raised before any
// brokerage call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets callers match validation failures with ports.ErrInvalidRequest.
func (e *ValidationError) Unwrap() error {
	return ports.ErrInvalidRequest
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Category is the coarse kind of a tool failure.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryBroker     Category = "broker"
	CategoryUnexpected Category = "unexpected"
)

// Classify sorts err into one of the three failure categories.
func Classify(err error) Category {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return CategoryValidation
	}
	var bErr *ports.BrokerAPIError
	if errors.As(err, &bErr) {
		return CategoryBroker
	}
	return CategoryUnexpected
}

// failureMessage builds the caller-facing text for err. Unexpected errors are
// reduced to a generic message; the detail only goes to the log.
func failureMessage(prefix string, err error) (Category, string) {
	cat := Classify(err)
	switch cat {
	case CategoryValidation:
		return cat, fmt.Sprintf("Invalid parameters: %v", err)
	case CategoryBroker:
		return cat, fmt.Sprintf("%s: %v", prefix, err)
	default:
		return cat, fmt.Sprintf("%s: an unexpected error occurred, see server logs for details", prefix)
	}
}
