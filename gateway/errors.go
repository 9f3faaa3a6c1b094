package gateway

import (
	"errors"
	"net/http"
	"strconv"
)

// Errors for configuration validation.
var (
	ErrConfigRequired   = errors.New("config is required")
	ErrEndpointRequired = errors.New("endpoint is required")
	ErrInvalidEndpoint  = errors.New("endpoint must be an absolute http or https URL")
)

// ErrInvalidResponse is returned when a response body is not valid JSON.
var ErrInvalidResponse = errors.New("invalid response body")

// APIError represents a non-2xx response from the gateway.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return "gateway error: " + strconv.Itoa(e.StatusCode)
	}
	return "gateway error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested resource does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the gateway rejects the credentials (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrForbidden is returned when the request is not permitted (403),
	// e.g. sharing a file the caller does not own.
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}
)
