// Package validate checks user-supplied identifiers before they are placed
// into API paths.
package validate

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	clierrors "github.com/novem-code/novem-cli/internal/errors"
)

// Name validates a single path segment such as a plot name, share target or
// invitation id. Segments may not be empty, contain a slash or whitespace,
// or be a relative path component.
func Name(field, value string) error {
	if value == "" {
		return invalid(field, "cannot be empty")
	}
	if value == "." || value == ".." {
		return invalid(field, fmt.Sprintf("%q is not a valid name", value))
	}
	if strings.ContainsRune(value, '/') {
		return invalid(field, fmt.Sprintf("must not contain '/', got %q", value))
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return invalid(field, fmt.Sprintf("must not contain whitespace, got %q", value))
	}
	return nil
}

// ResourcePath validates the path below a visualization, e.g. "config/type".
// Leading and trailing slashes are tolerated; empty or relative components
// are not.
func ResourcePath(field, value string) error {
	trimmed := strings.Trim(value, "/")
	if trimmed == "" {
		return invalid(field, "cannot be empty")
	}
	for _, part := range strings.Split(trimmed, "/") {
		if part == "" || part == "." || part == ".." {
			return invalid(field, fmt.Sprintf("invalid path %q", value))
		}
	}
	return nil
}

// APIRoot validates an API root URL (http or https with a host).
func APIRoot(field, value string) error {
	if value == "" {
		return invalid(field, "cannot be empty")
	}
	u, err := url.Parse(value)
	if err != nil {
		return invalid(field, fmt.Sprintf("must be a valid URL, got error: %v", err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid(field, fmt.Sprintf("must use http or https, got %q", value))
	}
	if u.Host == "" {
		return invalid(field, fmt.Sprintf("must have a host, got %q", value))
	}
	return nil
}

func invalid(field, msg string) error {
	return &clierrors.ValidationError{Field: field, Message: msg}
}
