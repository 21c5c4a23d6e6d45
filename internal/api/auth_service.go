package api

import (
	"context"
	"net/http"
)

// AuthService wraps the registration and login endpoints.
type AuthService struct {
	c *Client
}

// LoginResult carries the bearer token and the authenticated user.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login exchanges credentials for a token and the session user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	err := s.c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	res.User.normalize()
	return &res, nil
}

// Register creates a new account. The backend does not log the user in; a
// Login call follows on success.
func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	return s.c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
}
