package service

import "errors"

// Common service errors. Callers check them with errors.Is; the API layer
// maps them to status codes.
var (
	// ErrNotOwned indicates a booking belongs to a different intern than the
	// one making the request. API layer should map this to 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another intern")
)

// ServiceError wraps an unexpected error with the failing operation.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return e.Service + " service " + e.Operation + " failed: " + e.Err.Error()
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func wrapErr(service, operation string, err error) error {
	return &ServiceError{Service: service, Operation: operation, Err: err}
}
