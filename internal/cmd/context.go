package cmd

import (
	"context"

	"github.com/novem-code/novem-cli/internal/config"
	"github.com/novem-code/novem-cli/internal/ui"
)

type (
	profileKey     struct{}
	errorFormatKey struct{}
	configKey      struct{}
	colorModeKey   struct{}
	versionKey     struct{}
)

// WithProfile stores the selected profile name in the context.
func WithProfile(ctx context.Context, profile string) context.Context {
	return context.WithValue(ctx, profileKey{}, profile)
}

// ProfileFromContext retrieves the selected profile name from the context.
func ProfileFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(profileKey{}).(string); ok {
		return v
	}
	return ""
}

// WithErrorFormat stores the error format in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the error format from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}

// WithConfig stores loaded CLI config in context for downstream helpers.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFromContext retrieves CLI config from context.
func ConfigFromContext(ctx context.Context) *config.Config {
	if v, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return v
	}
	return nil
}

// WithColorMode stores the effective --color mode.
func WithColorMode(ctx context.Context, mode ui.ColorMode) context.Context {
	return context.WithValue(ctx, colorModeKey{}, mode)
}

// ColorModeFromContext returns the effective --color mode (auto by default).
func ColorModeFromContext(ctx context.Context) ui.ColorMode {
	if v, ok := ctx.Value(colorModeKey{}).(ui.ColorMode); ok {
		return v
	}
	return ui.ColorAuto
}

// WithVersion stores the CLI version used in the User-Agent header.
func WithVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, versionKey{}, version)
}

// VersionFromContext returns the CLI version, "dev" when unset.
func VersionFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(versionKey{}).(string); ok && v != "" {
		return v
	}
	return "dev"
}
