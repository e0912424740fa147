package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("client: unauthorized")
	ErrForbidden    = errors.New("client: forbidden")
	ErrNotFound     = errors.New("client: not found")
	ErrNoSession    = errors.New("client: no session in context")
)

// APIError is a non-2xx answer from a backend service.
type APIError struct {
	Status  int
	Code    string            // e.g. VALIDATION_ERROR
	Message string            // message field, or the raw body when not JSON
	Fields  map[string]string // per-field validation messages
}

func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
	case e.Code != "":
		return fmt.Sprintf("api %d %s", e.Status, e.Code)
	case e.Message != "":
		return fmt.Sprintf("api %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api %d %s", e.Status, http.StatusText(e.Status))
}

// Is lets callers test the status class with errors.Is(err, ErrNotFound).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}
