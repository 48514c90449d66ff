package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any 401 response via errors.Is.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches any 404 response via errors.Is.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response with the backend's payload kept intact so
// callers can branch on status code or inspect the body.
type APIError struct {
	StatusCode int
	Body       []byte
	Message    string
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}

	// Backends in the wild answer with either {"error": ...} or {"message": ...}.
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			e.Message = envelope.Error
		} else if envelope.Message != "" {
			e.Message = envelope.Message
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
