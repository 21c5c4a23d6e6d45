package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client issues authenticated requests against the amora backend and exposes
// typed service wrappers per domain.
type Client struct {
	rc     *resty.Client
	logger *zap.Logger

	Auth *AuthService
	Chat *ChatService
	User *UserService
	Post *PostService
}

// New creates a client for the given base URL (e.g. https://host/api).
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	// Request id for log correlation with the backend.
	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-Id", uuid.NewString())
		return nil
	})

	c := &Client{rc: rc, logger: logger}
	c.Auth = &AuthService{c: c}
	c.Chat = &ChatService{c: c}
	c.User = &UserService{c: c}
	c.Post = &PostService{c: c}
	return c
}

// SetToken installs the bearer token used for all subsequent requests.
func (c *Client) SetToken(token string) {
	c.rc.SetAuthToken(token)
}

// ClearToken removes the bearer token (logout).
func (c *Client) ClearToken() {
	c.rc.SetAuthToken("")
}

// do executes a request and decodes a successful response body into out.
// Non-2xx responses are mapped to the package's sentinel errors.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsError() {
		var eb errorBody
		_ = json.Unmarshal(resp.Body(), &eb)
		return fmt.Errorf("%s %s: %w", method, path, statusError(resp.StatusCode(), &eb))
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}
