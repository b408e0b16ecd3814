package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// AuthService talks to the owner auth endpoints.
type AuthService struct {
	api API
}

func NewAuthService(api API) *AuthService {
	return &AuthService{api: api}
}

// Login exchanges credentials for a token. It uses the public path: a 401
// here means bad credentials, not an expired session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, model.ErrMissingCredentials
	}

	var resp model.LoginResponse
	err := s.api.PublicJSON(ctx, http.MethodPost, "/owner/auth/login",
		model.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			log.Printf("[AuthService] Login rejected: user=%s status=%d", username, apiErr.Status)
			return nil, fmt.Errorf("%w: %w", model.ErrInvalidCredentials, err)
		}
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", model.ErrMalformedResponse)
	}
	if resp.Username == "" {
		resp.Username = username
	}

	log.Printf("[AuthService] Login OK: user=%s", resp.Username)
	return &resp, nil
}

// Verify validates the stored token and returns the owner it belongs to.
// Any non-2xx response means the session is not valid.
func (s *AuthService) Verify(ctx context.Context) (*model.VerifyResponse, error) {
	var resp model.VerifyResponse
	if err := s.api.JSON(ctx, http.MethodGet, "/owner/auth/verify", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Username == "" {
		return nil, fmt.Errorf("%w: verify response has no username", model.ErrMalformedResponse)
	}
	return &resp, nil
}
