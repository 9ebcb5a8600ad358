// Package update tells interactive users when a newer novem CLI release is
// published. Failures never affect the command that ran.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// CheckInterval is the minimum time between release lookups.
	CheckInterval = 24 * time.Hour
	// Repo is the GitHub repository releases are published to.
	Repo = "novem-code/novem-cli"
	// DisableEnvVar turns the check off when set to any value.
	DisableEnvVar = "NOVEM_NO_UPDATE_CHECK"

	cacheFile    = "update-check.json"
	fetchTimeout = 3 * time.Second
)

// HTTPDoer abstracts an HTTP client for testability.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type state struct {
	CheckedAt time.Time `json:"checked_at"`
	Latest    string    `json:"latest"`
}

// Checker looks up the latest release, caching the answer on disk.
type Checker struct {
	Client     HTTPDoer
	CachePath  string
	Interval   time.Duration
	ReleaseURL string
	Now        func() time.Time
}

// NewChecker returns a Checker using the default cache location.
func NewChecker() (*Checker, error) {
	path, err := DefaultCachePath()
	if err != nil {
		return nil, err
	}
	return &Checker{
		Client:     http.DefaultClient,
		CachePath:  path,
		Interval:   CheckInterval,
		ReleaseURL: fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", Repo),
		Now:        time.Now,
	}, nil
}

// DefaultCachePath is <user cache dir>/novem/update-check.json.
func DefaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "novem", cacheFile), nil
}

// Check returns an upgrade notice when a release newer than current exists.
// A notice is still returned when only saving the cache failed.
func (c *Checker) Check(ctx context.Context, current string) (string, error) {
	latest, err := c.latest(ctx)
	if latest != "" && Newer(current, latest) {
		return Message(latest, current), err
	}
	return "", err
}

func (c *Checker) latest(ctx context.Context) (string, error) {
	cached, err := c.load()
	if err != nil {
		slog.Debug("ignoring unreadable update cache", "path", c.CachePath, "error", err)
	}
	if cached.Latest != "" && c.Now().Sub(cached.CheckedAt) <= c.Interval {
		return cached.Latest, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	latest, err := c.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch latest release: %w", err)
	}
	if err := c.save(state{CheckedAt: c.Now(), Latest: latest}); err != nil {
		return latest, fmt.Errorf("save update cache: %w", err)
	}
	return latest, nil
}

func (c *Checker) load() (state, error) {
	var s state
	data, err := os.ReadFile(c.CachePath)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(data, &s)
	return s, err
}

func (c *Checker) save(s state) error {
	if err := os.MkdirAll(filepath.Dir(c.CachePath), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(c.CachePath, data, 0o644)
}

func (c *Checker) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ReleaseURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	if release.TagName == "" {
		return "", fmt.Errorf("release has no tag")
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// Notice runs a check with the default settings and returns the message to
// show, or "" when there is nothing to report. Errors are logged at debug level.
func Notice(ctx context.Context, current string) string {
	if os.Getenv(DisableEnvVar) != "" {
		return ""
	}
	c, err := NewChecker()
	if err != nil {
		slog.Debug("update check skipped", "error", err)
		return ""
	}
	msg, err := c.Check(ctx, current)
	if err != nil {
		slog.Debug("update check failed", "error", err)
	}
	return msg
}

// Message is the upgrade notice shown after a command.
func Message(latest, current string) string {
	return fmt.Sprintf("novem %s is available (you have %s)\nUpgrade: go install github.com/%s/cmd/novem@latest", latest, current, Repo)
}

// Newer reports whether latest is a higher release than current. Development
// builds never ask to be upgraded. Pre-release suffixes are ignored.
func Newer(current, latest string) bool {
	current = strings.TrimPrefix(current, "v")
	latest = strings.TrimPrefix(latest, "v")
	if current == "" || current == "dev" || current == "unknown" || latest == "" {
		return false
	}

	cur, lat := versionParts(current), versionParts(latest)
	for i := 0; i < len(cur) && i < len(lat); i++ {
		if lat[i] != cur[i] {
			return lat[i] > cur[i]
		}
	}
	return len(lat) > len(cur)
}

func versionParts(v string) []int {
	v, _, _ = strings.Cut(v, "-")
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		parts[i], _ = strconv.Atoi(f)
	}
	return parts
}
