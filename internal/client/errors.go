package client

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// InitError reports a key or endpoint that cannot be used to build a client.
type InitError struct {
	Field  string
	Reason string
	Err    error
}

func (e *InitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid client configuration: %s %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid client configuration: %s %s", e.Field, e.Reason)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// OperationError represents a failed call to the projects API: either a
// transport failure (StatusCode is zero) or a service-side rejection.
type OperationError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Body       string
	Err        error
}

func (e *OperationError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}

	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s failed (status %d, code %s): %s", e.Op, e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.StatusCode, msg)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func hasStatus(err error, code int) bool {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.StatusCode == code
	}
	return false
}

// IsNotFound returns true if the error is a 404 Not Found error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict returns true if the error is a 409 Conflict error.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// IsUnauthorized returns true if the error is a 401 Unauthorized error.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden returns true if the error is a 403 Forbidden error.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsRetryable returns true if the error is transient.
// Retryable errors: 408, 429 and 5xx responses.
func IsRetryable(err error) bool {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.StatusCode == http.StatusRequestTimeout ||
			opErr.StatusCode == http.StatusTooManyRequests ||
			opErr.StatusCode >= 500
	}
	return false
}
