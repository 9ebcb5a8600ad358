// Package debug carries the --debug flag and dumps HTTP traffic when it is set.
package debug

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	maxRequestBody  = 500
	maxResponseBody = 1000
)

type contextKey struct{}

// WithDebug injects the debug flag into the context
func WithDebug(ctx context.Context, debug bool) context.Context {
	return context.WithValue(ctx, contextKey{}, debug)
}

// IsDebug returns true if debug mode is enabled in the context
func IsDebug(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// DebugTransport wraps http.RoundTripper to log requests and responses.
type DebugTransport struct {
	Transport http.RoundTripper
	Output    io.Writer
}

// NewDebugTransport creates a new DebugTransport with the given base transport
// If output is nil, it defaults to os.Stderr
func NewDebugTransport(base http.RoundTripper, output io.Writer) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if output == nil {
		output = os.Stderr
	}
	return &DebugTransport{
		Transport: base,
		Output:    output,
	}
}

// RoundTrip implements http.RoundTripper
func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	_, _ = fmt.Fprintf(t.Output, "\n--> %s %s\n", req.Method, req.URL)
	for key, values := range req.Header {
		val := strings.Join(values, ", ")
		if key == "Authorization" {
			val = redactAuthorization(val)
		}
		_, _ = fmt.Fprintf(t.Output, "    %s: %s\n", key, val)
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			_, _ = fmt.Fprintf(t.Output, "    [ERROR reading request body: %v]\n", err)
		} else {
			req.Body = io.NopCloser(bytes.NewReader(body))
			if strings.Contains(req.URL.Path, "/token") {
				_, _ = fmt.Fprintln(t.Output, "    Body: [redacted]")
			} else if len(body) > 0 {
				_, _ = fmt.Fprintf(t.Output, "    Body: %s\n", clip(string(body), maxRequestBody))
			}
		}
	}

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		_, _ = fmt.Fprintf(t.Output, "<-- ERROR: %v (%s)\n\n", err, duration)
		return resp, err
	}

	_, _ = fmt.Fprintf(t.Output, "<-- %s (%s)\n", resp.Status, duration)
	for key, values := range resp.Header {
		_, _ = fmt.Fprintf(t.Output, "    %s: %s\n", key, strings.Join(values, ", "))
	}

	if resp.Body != nil {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			_, _ = fmt.Fprintf(t.Output, "    [ERROR reading response body: %v]\n\n", err)
		} else {
			resp.Body = io.NopCloser(bytes.NewReader(body))
			if len(body) > 0 {
				_, _ = fmt.Fprintf(t.Output, "    Body: %s\n", clip(string(body), maxResponseBody))
			}
		}
	}

	_, _ = fmt.Fprintln(t.Output)
	return resp, nil
}

// redactAuthorization keeps only the scheme of an Authorization header.
func redactAuthorization(val string) string {
	if scheme, _, ok := strings.Cut(val, " "); ok {
		return scheme + " [redacted]"
	}
	return "[redacted]"
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "... [truncated]"
}
