// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// FormatEnvVar selects the log handler ("text" or "json").
const FormatEnvVar = "NOVEM_LOG_FORMAT"

// Format is the output format for log records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// FormatFromEnv reads NOVEM_LOG_FORMAT. Anything other than "json" is text.
func FormatFromEnv() Format {
	if strings.EqualFold(strings.TrimSpace(os.Getenv(FormatEnvVar)), "json") {
		return FormatJSON
	}
	return FormatText
}

// Setup installs the default slog logger. debug lowers the level to Debug,
// otherwise only warnings and errors are written so that command output
// stays clean. A nil w writes to os.Stderr.
func Setup(debug bool, w io.Writer, format Format) {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
