package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/novem-code/novem-cli/internal/auth"
	"github.com/novem-code/novem-cli/internal/config"
	"github.com/novem-code/novem-cli/internal/debug"
	clierrors "github.com/novem-code/novem-cli/internal/errors"
	"github.com/novem-code/novem-cli/internal/novem"
)

// session is an authenticated client bound to one profile.
type session struct {
	client      *novem.Client
	profileName string
	profile     *config.Profile
}

// resolveProfile returns the profile selected by --profile, NOVEM_PROFILE or
// the config default.
func resolveProfile(ctx context.Context) (string, *config.Profile, error) {
	cfg := ConfigFromContext(ctx)
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return "", nil, err
		}
		cfg = loaded
	}
	name, p, err := cfg.ResolveProfile(ProfileFromContext(ctx))
	if err != nil {
		return "", nil, clierrors.WrapUserError(err, "unknown profile", "Run 'novem config profile list' to see configured profiles")
	}
	return name, p, nil
}

// newClient builds an API client for profile with root, TLS and debug
// settings applied.
func newClient(ctx context.Context, token string, p *config.Profile) *novem.Client {
	client := novem.NewClient(token).WithUserAgent(novem.UserAgent(VersionFromContext(ctx)))

	root := strings.TrimSpace(os.Getenv(envAPIRoot))
	if root == "" && p != nil {
		root = strings.TrimSpace(p.APIRoot)
	}
	if root != "" {
		client.WithAPIRoot(root)
	}
	if p != nil && p.IgnoreSSLWarn {
		slog.Warn("TLS certificate verification disabled", "api_root", client.Root())
		client.WithInsecureTLS()
	}
	if debug.IsDebug(ctx) {
		client.WithDebugOutput(stderrFromContext(ctx))
	}
	return client
}

func sessionFromContext(ctx context.Context) (*session, error) {
	name, p, err := resolveProfile(ctx)
	if err != nil {
		return nil, err
	}
	token, err := auth.ResolveToken(name, p)
	if err != nil {
		return nil, clierrors.AuthRequiredError(err)
	}
	return &session{
		client:      newClient(ctx, token, p),
		profileName: name,
		profile:     p,
	}, nil
}

// username is the account whose resources are listed by default.
func (s *session) username() (string, error) {
	if s.profile != nil && s.profile.Username != "" {
		return s.profile.Username, nil
	}
	if meta, err := auth.GetTokenMetadata(s.profileName); err == nil && meta.Username != "" {
		return meta.Username, nil
	}
	return "", clierrors.NewUserError(
		"no username configured for profile "+s.profileName,
		"Run 'novem config profile add "+s.profileName+" --username <name>' or pass --user",
	)
}

// wrapNotFound turns a 404 on a named resource into a user-facing error.
func wrapNotFound(err error, kind, name string) error {
	if novem.IsNotFound(err) {
		return clierrors.NotFoundError(kind, name, err)
	}
	return err
}
