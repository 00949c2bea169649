package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode is the closed set of error kinds the backend reports in its
// response envelope.
type ErrorCode string

const (
	CodeAuthFailed   ErrorCode = "AUTH_FAILED"
	CodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeRateLimited  ErrorCode = "RATE_LIMITED"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeExternalAPI  ErrorCode = "EXTERNAL_API_ERROR"
)

var (
	// ErrSessionExpired means the refresh token is gone or the refresh call
	// failed. The session has already been cleared; the caller must send the
	// user back to login.
	ErrSessionExpired = errors.New("session expired, login required")

	// ErrMissingData marks a 2xx response whose envelope lacks the required
	// data field.
	ErrMissingData = errors.New("response envelope has no data field")
)

// envelope is the JSON wrapper every backend response uses.
type envelope struct {
	Timestamp string          `json:"timestamp"`
	Status    int             `json:"status"`
	Code      ErrorCode       `json:"code"`
	Message   string          `json:"message"`
	Path      string          `json:"path,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// APIError is a non-2xx backend response decoded from the envelope.
type APIError struct {
	Status  int
	Code    ErrorCode
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend error %d (%s)", e.Status, e.Code)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.Status == 404 || apiErr.Code == CodeNotFound)
}

func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeRateLimited
}

// isTokenError reports whether a response signals expired or invalid
// credentials: HTTP 401 or the backend's TOKEN_EXPIRED code.
func isTokenError(status int, env *envelope) bool {
	if status == 401 {
		return true
	}
	return env != nil && env.Code == CodeTokenExpired
}
