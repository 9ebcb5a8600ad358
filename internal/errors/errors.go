// Package errors defines the error types surfaced by the novem CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents an input validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// UserError represents an error caused by user input or configuration.
// Suggestion can provide a concrete fix for the user.
type UserError struct {
	Message    string
	Suggestion string
	Err        error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a UserError with a message and optional suggestion.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// WrapUserError wraps an underlying error with a user-facing message and suggestion.
func WrapUserError(err error, message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion, Err: err}
}

// AuthError represents authentication failures
type AuthError struct {
	Reason     string
	Suggestion string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AuthRequiredError wraps err with a hint on how to obtain a token.
func AuthRequiredError(err error) error {
	return &AuthError{
		Reason:     "authentication required",
		Suggestion: "Run 'novem auth login' or set NOVEM_TOKEN",
		Err:        err,
	}
}

// NotFoundError creates a user-friendly error for a missing named resource.
// kind is the resource type (e.g. "plot", "mail", "invite").
func NotFoundError(kind, name string, err error) error {
	title := kind
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	return WrapUserError(err,
		fmt.Sprintf("%s %q did not exist", title, name),
		fmt.Sprintf("Run 'novem %s list' to see what is available", kind))
}

// Type checkers
func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

// UserSuggestion returns a suggestion string if err is a UserError or AuthError.
func UserSuggestion(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Suggestion
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Suggestion
	}
	return ""
}

// ContextualError wraps an error with HTTP request context for debugging.
type ContextualError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

// WrapContext wraps an error with HTTP request context.
// StatusCode can be 0 if the request never completed.
// Returns nil if err is nil.
func WrapContext(method, url string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &ContextualError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

func (e *ContextualError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s (%d): %s", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *ContextualError) Unwrap() error {
	return e.Err
}

// IsContextualError checks if an error is a ContextualError.
func IsContextualError(err error) bool {
	var ce *ContextualError
	return errors.As(err, &ce)
}
