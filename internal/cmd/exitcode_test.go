package cmd

import (
	"context"
	"fmt"
	"testing"

	clierrors "github.com/novem-code/novem-cli/internal/errors"
	"github.com/novem-code/novem-cli/internal/novem"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"canceled", context.Canceled, ExitCanceled},
		{"wrapped canceled", fmt.Errorf("request: %w", context.Canceled), ExitCanceled},
		{"user", clierrors.NewUserError("bad", "hint"), ExitUser},
		{"validation", &clierrors.ValidationError{Field: "x", Message: "bad"}, ExitUser},
		{"auth", &clierrors.AuthError{Reason: "no token"}, ExitAuth},
		{"auth_required", clierrors.AuthRequiredError(nil), ExitAuth},
		{"api_404", &novem.APIError{StatusCode: 404}, ExitNotFound},
		{"api_429", &novem.APIError{StatusCode: 429}, ExitRateLimit},
		{"api_401", &novem.APIError{StatusCode: 401}, ExitAuth},
		{"api_403", &novem.APIError{StatusCode: 403}, ExitAuth},
		{"api_400", &novem.APIError{StatusCode: 400}, ExitUser},
		{"api_502", &novem.APIError{StatusCode: 502}, ExitTemp},
		{"api_503", &novem.APIError{StatusCode: 503}, ExitTemp},
		{"api_500", &novem.APIError{StatusCode: 500}, ExitSystem},
		{"not_found_wrapper", clierrors.NotFoundError("plot", "x", clierrors.WrapContext("DELETE", "u", 404, &novem.APIError{StatusCode: 404})), ExitNotFound},
		{"plain", fmt.Errorf("boom"), ExitSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
