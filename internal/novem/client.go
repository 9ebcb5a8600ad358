package novem

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/novem-code/novem-cli/internal/debug"
	ctxerrors "github.com/novem-code/novem-cli/internal/errors"
)

const (
	// DefaultAPIRoot is the production API endpoint.
	DefaultAPIRoot = "https://api.novem.no/v1/"

	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	baseDelay      = 1 * time.Second
)

// Client talks to the novem REST API. Every resource is addressed by a
// slash-separated path below the API root.
type Client struct {
	httpClient *http.Client
	token      string
	root       string
	userAgent  string
	maxRetries int
}

// NewClient creates a client authenticating with token.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
		token:      token,
		root:       DefaultAPIRoot,
		userAgent:  UserAgent("dev"),
		maxRetries: maxRetries,
	}
}

// UserAgent builds the User-Agent header value for version.
func UserAgent(version string) string {
	return fmt.Sprintf("NovemCli/%s Go/%s", version, strings.TrimPrefix(runtime.Version(), "go"))
}

// WithHTTPClient sets a custom HTTP client
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithAPIRoot sets the API root. A trailing slash is added when missing.
func (c *Client) WithAPIRoot(root string) *Client {
	c.root = strings.TrimRight(root, "/") + "/"
	return c
}

// WithUserAgent overrides the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

// WithMaxRetries sets the maximum number of retries for transient errors.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// WithInsecureTLS disables certificate verification (ignore_ssl_warn).
func (c *Client) WithInsecureTLS() *Client {
	if t, ok := c.httpClient.Transport.(*http.Transport); ok {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit user opt-in
	}
	return c
}

// WithDebug enables HTTP request/response logging to stderr.
func (c *Client) WithDebug() *Client {
	return c.WithDebugOutput(os.Stderr)
}

// WithDebugOutput enables HTTP request/response logging to w.
func (c *Client) WithDebugOutput(w io.Writer) *Client {
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.httpClient.Transport = debug.NewDebugTransport(base, w)
	return c
}

// Root returns the configured API root.
func (c *Client) Root() string {
	return c.root
}

// Read fetches the resource at path as text.
func (c *Client) Read(ctx context.Context, path string) (string, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil, "", true)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Write replaces the content at path with value.
func (c *Client) Write(ctx context.Context, path, value string) error {
	_, err := c.do(ctx, http.MethodPost, path, []byte(value), "text/plain", true)
	return err
}

// Create creates an empty resource at path.
func (c *Client) Create(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodPut, path, nil, "", true)
	return err
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, "", true)
	return err
}

// TokenRequest is the body of a token creation call.
type TokenRequest struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	TokenName        string `json:"token_name,omitempty"`
	TokenDescription string `json:"token_description,omitempty"`
}

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	Status           string `json:"status"`
	Token            string `json:"token"`
	TokenID          string `json:"token_id"`
	TokenName        string `json:"token_name"`
	TokenDescription string `json:"token_description"`
}

// CreateToken exchanges credentials for an API token. No auth header is sent.
func (c *Client) CreateToken(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "token", payload, "application/json", false)
	if err != nil {
		return nil, err
	}
	var tok TokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &tok, nil
}

func (c *Client) url(path string) string {
	return c.root + strings.TrimLeft(path, "/")
}

// do performs a request with retry on rate limits and server errors.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, auth bool) ([]byte, error) {
	url := c.url(path)
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryDelay(attempt, lastErr)
			slog.Debug("retrying request",
				"method", method,
				"path", path,
				"attempt", attempt,
				"delay", delay.String())

			select {
			case <-ctx.Done():
				return nil, ctxerrors.WrapContext(method, url, 0, ctx.Err())
			case <-time.After(delay):
			}
		}

		out, err := c.doOnce(ctx, method, url, body, contentType, auth)
		if err == nil {
			return out, nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && isRetryable(apiErr.StatusCode) {
			continue
		}
		return nil, ctxerrors.WrapContext(method, url, statusCode(err), err)
	}

	return nil, ctxerrors.WrapContext(method, url, statusCode(lastErr), lastErr)
}

func (c *Client) doOnce(ctx context.Context, method, url string, body []byte, contentType string, auth bool) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if auth && c.token != "" {
		req.SetBasicAuth("", c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		var errResp ErrorResponse
		if json.Unmarshal(data, &errResp) == nil {
			apiErr.Message = errResp.Message
		}
		return nil, apiErr
	}
	return data, nil
}

// retryDelay honors Retry-After, otherwise backs off 1s, 2s, 4s with up to 25% jitter.
func retryDelay(attempt int, lastErr error) time.Duration {
	var apiErr *APIError
	if errors.As(lastErr, &apiErr) && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}
	delay := baseDelay * time.Duration(1<<(attempt-1))
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}

func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func statusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
