package api

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from backend HTTP status codes. Callers branch with
// errors.Is; the wrapped message carries the backend's detail.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e *errorBody) detail() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func statusError(code int, body *errorBody) error {
	detail := body.detail()
	if detail == "" {
		detail = fmt.Sprintf("http status %d", code)
	}
	switch code {
	case 401, 403:
		return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	case 404:
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	case 409:
		return fmt.Errorf("%w: %s", ErrConflict, detail)
	default:
		return fmt.Errorf("server error (%d): %s", code, detail)
	}
}
