// Package cmdutil holds helpers shared by command implementations.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrStdinConsumed is returned when a second value asks for stdin.
var ErrStdinConsumed = errors.New("stdin can only be used for one value")

// InputResolver turns write arguments into payloads. A value is taken
// literally, "@path" reads a file and "-" (or no value at all) reads stdin.
// Stdin may feed only one value per invocation.
type InputResolver struct {
	stdin    io.Reader
	consumed bool
}

// NewInputResolver creates a resolver reading "-" from stdin.
func NewInputResolver(stdin io.Reader) *InputResolver {
	if stdin == nil {
		stdin = os.Stdin
	}
	return &InputResolver{stdin: stdin}
}

// Resolve returns the payload for value. present is false when the user
// gave no value on the command line.
func (r *InputResolver) Resolve(value string, present bool) (string, error) {
	switch {
	case !present, value == "-":
		return r.readStdin()
	case strings.HasPrefix(value, "@") && len(value) > 1:
		return ReadFile(value[1:])
	default:
		return value, nil
	}
}

func (r *InputResolver) readStdin() (string, error) {
	if r.consumed {
		return "", ErrStdinConsumed
	}
	r.consumed = true
	data, err := io.ReadAll(r.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// ReadFile reads a payload file. A leading ~/ is expanded to the home directory.
func ReadFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("input file path is required")
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return string(data), nil
}
