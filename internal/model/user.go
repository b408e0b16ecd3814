package model

import (
	"errors"
)

// Status is the lifecycle state of the client session
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// User is the authenticated owner held by the session
type User struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Session is the client-side record of whether (and which) owner is signed in.
// StatusSucceeded with a nil User means "checked, not authenticated".
type Session struct {
	Status Status `json:"status"`
	User   *User  `json:"user"`
	Error  string `json:"error,omitempty"`
}

// Authenticated reports whether the session carries a user
func (s Session) Authenticated() bool {
	return s.User != nil
}

// Username returns the signed-in owner's name or "" when anonymous
func (s Session) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

// LoginRequest represents the credentials sent to the login endpoint
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /owner/auth/login
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// VerifyResponse is the body returned by GET /owner/auth/verify
type VerifyResponse struct {
	Username string `json:"username"`
}

var (
	// ErrInvalidCredentials is returned when the login endpoint rejects the credentials
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrMissingCredentials is returned when username or password is empty
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrNotAuthenticated is returned when an operation needs a signed-in owner
	ErrNotAuthenticated = errors.New("not authenticated")
)
