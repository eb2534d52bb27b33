package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors
var (
	// ErrInvalidCredentials is returned when the auth service rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRegistration is returned when account registration fails.
	ErrRegistration = errors.New("registration failed")
)

// AuthClient talks to the backend's auth endpoints.
type AuthClient struct {
	c *httpClient
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. A rejected login
// returns ErrInvalidCredentials, not a transport error.
func (a *AuthClient) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}

	var resp loginResponse
	err := a.c.postJSON(ctx, "/auth/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return "", ErrInvalidCredentials
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusBadRequest {
			return "", fmt.Errorf("%w: %s", ErrInvalidCredentials, statusErr.Detail)
		}
		return "", fmt.Errorf("login failed: %w", err)
	}

	if resp.Token == "" {
		return "", fmt.Errorf("login failed: server returned no token")
	}

	return resp.Token, nil
}

// Registration holds the details for a new dashboard user.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate mirrors the backend's field rules so obvious mistakes are
// caught before any network call.
func (r Registration) Validate() error {
	if len(r.Username) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters long", ErrRegistration)
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: invalid email address", ErrRegistration)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", ErrRegistration)
	}
	return nil
}

type registerResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// Register creates a new dashboard user. Validation and remote failures
// both wrap ErrRegistration.
func (a *AuthClient) Register(ctx context.Context, reg Registration) (string, error) {
	if err := reg.Validate(); err != nil {
		return "", err
	}

	var resp registerResponse
	if err := a.c.postJSON(ctx, "/accounts/register", reg, &resp); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return "", fmt.Errorf("%w: %s", ErrRegistration, statusErr.Detail)
		}
		return "", fmt.Errorf("%w: %v", ErrRegistration, err)
	}

	return resp.Username, nil
}
