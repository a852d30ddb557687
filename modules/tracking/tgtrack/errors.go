package tgtrack

import (
	"errors"
	"fmt"
)

// ErrDisabled is returned when a client operation is invoked while
// tracking is turned off.
var ErrDisabled = errors.New("tgtrack: tracking disabled")

// ErrTimeout marks a request that exceeded the configured per-request
// timeout. Check with errors.Is.
var ErrTimeout = errors.New("tgtrack: request timed out")

// StatusError reports a non-success response from the provider: either
// a non-200 HTTP status or a 200 whose body carries a non-zero error
// code.
type StatusError struct {
	// HTTPStatus is the HTTP status code of the response.
	HTTPStatus int

	// Code is the provider error code from the response body. Zero
	// means success, so a StatusError always carries either a non-200
	// HTTPStatus or a non-zero Code.
	Code int

	// Message is the provider error message, if any.
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.HTTPStatus != 200 {
		return fmt.Sprintf("tgtrack: HTTP %d", e.HTTPStatus)
	}
	return fmt.Sprintf("tgtrack: provider error %d: %s", e.Code, e.Message)
}

// failureReason buckets an error for the metrics failure counter.
func failureReason(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrDisabled):
		return "disabled"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.As(err, &statusErr):
		return "status"
	default:
		return "network"
	}
}
