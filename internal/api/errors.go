package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err (or any error in its chain) is a backend
// error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// IsAuth reports whether err is a 401 from the backend. Screens use this
// to force a sign-out instead of showing a retry affordance.
func IsAuth(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
