package novem

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorResponse is the JSON body the service sends with error statuses.
type ErrorResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode == http.StatusNotFound && e.Message != "":
		return fmt.Sprintf("resource not found: %s (are you authenticated?)", e.Message)
	case e.StatusCode == http.StatusNotFound:
		return "resource not found (are you authenticated?)"
	case e.Message != "":
		return fmt.Sprintf("novem API error %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("novem API error %d", e.StatusCode)
	}
}

// IsNotFound reports whether err carries a 404 from the service.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err carries a 401 or 403 from the service.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}
