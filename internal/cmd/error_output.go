package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	clierrors "github.com/novem-code/novem-cli/internal/errors"
	"github.com/novem-code/novem-cli/internal/iocontext"
	"github.com/novem-code/novem-cli/internal/novem"
	"github.com/novem-code/novem-cli/internal/output"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return clierrors.NewUserError(
			fmt.Sprintf("invalid --error-format %q", format),
			"Use one of: auto, text, json, yaml",
		)
	}
}

// effectiveErrorFormat resolves "auto" to the format of regular output.
func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, fallback io.Writer, err error) {
	if err == nil {
		return
	}
	w := iocontext.StderrOrDefault(ctx, fallback)

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	if suggestion := clierrors.UserSuggestion(err); suggestion != "" {
		_, _ = fmt.Fprintf(w, "Hint: %s\n", suggestion)
	}
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":   err.Error(),
		"exit_code": ExitCode(err),
	}

	category := "system"
	if clierrors.IsUserError(err) || clierrors.IsValidationError(err) || clierrors.IsAuthError(err) {
		category = "user"
	}
	errMap["category"] = category

	if suggestion := clierrors.UserSuggestion(err); suggestion != "" {
		errMap["suggestion"] = suggestion
	}

	var contextual *clierrors.ContextualError
	if errors.As(err, &contextual) {
		errMap["method"] = contextual.Method
		errMap["url"] = contextual.URL
		if contextual.StatusCode > 0 {
			errMap["status"] = contextual.StatusCode
		}
	}

	var apiErr *novem.APIError
	if errors.As(err, &apiErr) {
		errMap["type"] = "novem_api"
		errMap["status"] = apiErr.StatusCode
		if apiErr.Message != "" {
			errMap["api_message"] = apiErr.Message
		}
		if apiErr.RetryAfter > 0 {
			errMap["retry_after_seconds"] = int(apiErr.RetryAfter.Seconds())
		}
	}

	var authErr *clierrors.AuthError
	if errors.As(err, &authErr) {
		errMap["type"] = "auth"
	}

	var validationErr *clierrors.ValidationError
	if errors.As(err, &validationErr) {
		errMap["type"] = "validation"
		errMap["field"] = validationErr.Field
	}

	return map[string]interface{}{"error": errMap}
}
