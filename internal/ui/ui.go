// Package ui writes status messages to stderr and decides when output is colored.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	// ColorAuto colors output only when it goes to a capable terminal.
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output regardless of terminal capabilities.
	ColorAlways
	// ColorNever disables all colored output.
	ColorNever
)

// ParseColorMode converts a --color flag or config value.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "on", "true":
		return ColorAlways, nil
	case "never", "off", "false":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (expected auto|always|never)", s)
	}
}

type contextKey struct{}

// UI provides methods for formatted terminal output with color support.
type UI struct {
	out   *termenv.Output
	color ColorMode
}

// New creates a UI writing to w (os.Stderr when nil).
// It respects the NO_COLOR environment variable.
func New(mode ColorMode, w io.Writer) *UI {
	if w == nil {
		w = os.Stderr
	}
	if os.Getenv("NO_COLOR") != "" {
		mode = ColorNever
	}
	return &UI{
		out:   termenv.NewOutput(w, termenv.WithProfile(Profile(mode, w))),
		color: mode,
	}
}

// Profile returns the escape sequence profile to use for w under mode.
// Auto detects from the writer and environment, Always upgrades a plain
// writer to ANSI, Never is always Ascii.
func Profile(mode ColorMode, w io.Writer) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" || mode == ColorNever {
		return termenv.Ascii
	}
	profile := termenv.NewOutput(w).EnvColorProfile()
	if mode == ColorAlways && profile == termenv.Ascii {
		profile = termenv.ANSI
	}
	return profile
}

// Mode returns the effective color mode.
func (u *UI) Mode() ColorMode {
	return u.color
}

// WithUI returns a new context with the UI instance attached.
func WithUI(ctx context.Context, ui *UI) context.Context {
	return context.WithValue(ctx, contextKey{}, ui)
}

// FromContext retrieves the UI instance from the context.
// If no UI is found, it returns a default UI with ColorAuto mode.
func FromContext(ctx context.Context) *UI {
	if ui, ok := ctx.Value(contextKey{}).(*UI); ok {
		return ui
	}
	return New(ColorAuto, nil)
}

// Success prints a success message in green.
func (u *UI) Success(format string, args ...any) {
	u.line("✓ ", termenv.ANSIGreen, format, args...)
}

// Warning prints a warning message in yellow.
func (u *UI) Warning(format string, args ...any) {
	u.line("⚠ ", termenv.ANSIYellow, format, args...)
}

// Error prints an error message in red.
func (u *UI) Error(format string, args ...any) {
	u.line("✗ ", termenv.ANSIRed, format, args...)
}

// Info prints an informational message in blue.
func (u *UI) Info(format string, args ...any) {
	u.line("ℹ ", termenv.ANSIBlue, format, args...)
}

func (u *UI) line(prefix string, c termenv.ANSIColor, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String(prefix+msg).Foreground(u.out.Convert(c)))
}

// Writer returns the underlying writer for the UI.
func (u *UI) Writer() io.Writer {
	return u.out
}
