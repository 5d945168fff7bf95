package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/swiftstay/admin/internal/session"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Tokens is the token pair issued on login
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is the data of a successful login
type LoginResult struct {
	Admin  session.Admin `json:"admin"`
	Tokens Tokens        `json:"tokens"`
}

// Login authenticates against the backend. The credentials are checked locally first.
func (c *Client) Login(ctx context.Context, email, password string) (*Envelope[LoginResult], error) {
	req := LoginRequest{Email: email, Password: password}
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	return call[LoginResult](ctx, c, "/admin/login", RequestOptions{Method: http.MethodPost, Body: req})
}

// SignIn logs in and records the result in s
func (c *Client) SignIn(ctx context.Context, s *session.Session, email, password string) (*session.Admin, error) {
	env, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%w: login response has no data", ErrMalformedResponse)
	}

	result := env.Data
	if err := s.Login(ctx, result.Admin, result.Tokens.AccessToken, result.Tokens.RefreshToken); err != nil {
		if errors.Is(err, session.ErrIncompleteCredentials) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return nil, err
	}
	return &result.Admin, nil
}

// Health is the data returned by the health endpoint
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
	Uptime    Amount `json:"uptime,omitempty"`
}

// HealthCheck pings the backend
func (c *Client) HealthCheck(ctx context.Context) (*Envelope[Health], error) {
	return call[Health](ctx, c, "/health", RequestOptions{})
}
