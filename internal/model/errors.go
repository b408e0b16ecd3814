package model

import (
	"errors"
	"fmt"
)

// LoggedOutMessage is the 400 body message the owner API uses for a revoked session
const LoggedOutMessage = "You are logged out. Login again"

var (
	// ErrTransport wraps failures where no response was received (offline, DNS, timeout)
	ErrTransport = errors.New("transport failure")

	// ErrSessionInvalid is matched by APIErrors that carried a session-invalidated signal
	ErrSessionInvalid = errors.New("session invalidated")

	// ErrPersist is returned when in-memory session state changed but the token store write failed
	ErrPersist = errors.New("token persistence failed")

	// ErrMalformedResponse is returned when a 2xx body cannot be decoded
	ErrMalformedResponse = errors.New("malformed response body")
)

// APIError is a response that was received from the owner API with a non-2xx status.
type APIError struct {
	Status  int
	Message string
	Body    []byte
	// Invalidated is set when the response matched the logout signature
	Invalidated bool
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d message=%s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: status=%d", e.Status)
}

// Is lets errors.Is(err, ErrSessionInvalid) match invalidation responses
func (e *APIError) Is(target error) bool {
	return target == ErrSessionInvalid && e.Invalidated
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an APIError
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
