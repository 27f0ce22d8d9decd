package backendapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired reports that the caller's session cannot be salvaged:
// the access token was rejected and the refresh attempt failed. The HTTP
// layer reacts by clearing both token cookies and redirecting to /login.
var ErrSessionExpired = errors.New("backendapi: session expired")

// APIError is a non-2xx response from the backend. Status and Message mirror
// the upstream response so relay handlers can pass them through unchanged.
type APIError struct {
	// Status is the upstream HTTP status code.
	Status int

	// Message is the upstream human-readable message, if any.
	Message string

	// Detail is the upstream error detail field, if any.
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Unauthorized reports whether the upstream status was 401.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// NetworkError is a transport-level failure: connection refused, timeout,
// DNS failure. No upstream response was received.
type NetworkError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable at %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying transport error.
func (e *NetworkError) Unwrap() error { return e.Err }

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
