package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/novem-code/novem-cli/internal/auth"
	"github.com/novem-code/novem-cli/internal/config"
	"github.com/novem-code/novem-cli/internal/testutil"
)

// testEnv runs commands against a mock API with an isolated config file
// and an in-memory keyring.
type testEnv struct {
	t          *testing.T
	server     *testutil.MockServer
	configPath string
	keyring    *auth.MockKeyring
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ms := testutil.NewMockServer()
	t.Cleanup(ms.Close)

	ring := auth.NewMockKeyringProvider()
	auth.SetProviderFunc(func() (auth.KeyringProvider, error) { return ring, nil })
	t.Cleanup(func() { auth.SetProviderFunc(nil) })

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("NOVEM_CONFIG", configPath)
	t.Setenv(auth.EnvVarName, "test-token")
	t.Setenv(envAPIRoot, ms.URL())
	t.Setenv(envProfile, "")
	t.Setenv(envOutput, "")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("COLUMNS", "100")

	cfg := &config.Config{
		DefaultProfile: "default",
		Profiles: map[string]config.Profile{
			"default": {Username: "alice"},
		},
	}
	if err := cfg.SaveToPath(configPath); err != nil {
		t.Fatalf("SaveToPath() error = %v", err)
	}

	return &testEnv{
		t:          t,
		server:     ms,
		configPath: configPath,
		keyring:    ring,
		stdout:     &bytes.Buffer{},
		stderr:     &bytes.Buffer{},
	}
}

// run executes args with stdin and returns the command error.
func (e *testEnv) run(stdin string, args ...string) error {
	e.t.Helper()
	e.stdout.Reset()
	e.stderr.Reset()
	app := &App{
		Stdout:  e.stdout,
		Stderr:  e.stderr,
		Stdin:   strings.NewReader(stdin),
		Version: "test",
	}
	return app.Execute(context.Background(), args)
}

// mustRun fails the test when the command errors.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	if err := e.run("", args...); err != nil {
		e.t.Fatalf("%v: unexpected error: %v\nstderr: %s", args, err, e.stderr.String())
	}
	return e.stdout.String()
}

func (e *testEnv) loadConfig() *config.Config {
	e.t.Helper()
	cfg, err := config.LoadFromPath(e.configPath)
	if err != nil {
		e.t.Fatalf("LoadFromPath() error = %v", err)
	}
	return cfg
}
