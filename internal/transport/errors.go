package transport

import (
	"errors"
	"fmt"
)

const (
	networkErrorMessage    = "Network error. Please try again."
	validationErrorMessage = "Validation failed"
)

// TransportError reports that no response was obtained from the service.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return networkErrorMessage
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError reports a well-formed non-success response.
// Message is the server-supplied text when present, else a per-operation default.
type ApplicationError struct {
	Op          string
	Status      int
	Message     string
	Suggestions []string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// ValidationError reports a failed validate or suggest round-trip, whatever the cause.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return validationErrorMessage
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Describe renders err for logs, keeping the underlying cause visible.
func Describe(err error) string {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return fmt.Sprintf("%s: transport: %v", transportErr.Op, transportErr.Err)
	}

	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return fmt.Sprintf("%s: status %d: %s", appErr.Op, appErr.Status, appErr.Message)
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Sprintf("%s: %v", validationErr.Op, validationErr.Err)
	}

	return err.Error()
}
