package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/novem-code/novem-cli/internal/auth"
	"github.com/novem-code/novem-cli/internal/config"
	clierrors "github.com/novem-code/novem-cli/internal/errors"
	"github.com/novem-code/novem-cli/internal/novem"
	"github.com/novem-code/novem-cli/internal/validate"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage novem API authentication",
		Long: `Manage authentication tokens for the novem API.

Tokens are stored per profile in the system keyring. NOVEM_TOKEN overrides
any stored token.`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

// loginProfile picks the profile that login writes to. An explicit
// --profile that is not configured yet is created.
func loginProfile(ctx context.Context, cfg *config.Config) (string, config.Profile, error) {
	if name := ProfileFromContext(ctx); name != "" {
		return name, cfg.Profiles[name], nil
	}
	name, p, err := cfg.ResolveProfile("")
	if err != nil {
		return "", config.Profile{}, err
	}
	return name, *p, nil
}

func newAuthLoginCmd() *cobra.Command {
	var username string
	var token string
	var apiRoot string
	var passwordStdin bool
	var tokenName string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store an API token",
		Long: `Exchange your novem username and password for an API token and store it
in the system keyring.

The password is prompted for when stdin is a terminal. Use --password-stdin
to pipe it in, or --token to store an existing token without logging in.

Examples:
  novem auth login --username alice
  echo "$PASSWORD" | novem auth login --username alice --password-stdin
  novem auth login --profile staging --api-root https://staging.novem.no/v1/ --token nbt-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := ConfigFromContext(ctx)
			if cfg == nil {
				return fmt.Errorf("config not loaded")
			}
			name, profile, err := loginProfile(ctx, cfg)
			if err != nil {
				return err
			}
			if apiRoot != "" {
				if err := validate.APIRoot("api_root", apiRoot); err != nil {
					return err
				}
				profile.APIRoot = apiRoot
			}
			if username == "" {
				username = profile.Username
			}

			stdin := stdinFromContext(ctx)
			reader := bufio.NewReader(stdin)
			meta := auth.TokenMetadata{Token: strings.TrimSpace(token), Username: username}

			if meta.Token == "" {
				if username == "" {
					username, err = prompt(ctx, reader, "Username: ")
					if err != nil {
						return err
					}
					meta.Username = username
				}
				if username == "" {
					return clierrors.NewUserError("username is required", "Pass --username or set it with 'novem config profile add'")
				}
				password, err := readPassword(ctx, stdin, reader, passwordStdin)
				if err != nil {
					return err
				}

				client := newClient(ctx, "", &profile)
				if tokenName == "" {
					tokenName = defaultTokenName()
				}
				resp, err := client.CreateToken(ctx, novem.TokenRequest{
					Username:         username,
					Password:         password,
					TokenName:        tokenName,
					TokenDescription: "novem command-line client",
				})
				if err != nil {
					if novem.IsUnauthorized(err) {
						return &clierrors.AuthError{
							Reason:     "login failed",
							Suggestion: "Check your username and password",
							Err:        err,
						}
					}
					return fmt.Errorf("failed to create token: %w", err)
				}
				if resp.Token == "" {
					return fmt.Errorf("login succeeded but no token was returned")
				}
				meta.Token = resp.Token
				meta.TokenName = resp.TokenName
			}

			if err := auth.StoreToken(name, meta); err != nil {
				return err
			}

			if meta.Username != "" {
				profile.Username = meta.Username
			}
			if profile.TokenSource != "" && profile.TokenSource != "keyring" {
				profile.TokenSource = "keyring"
			}
			if err := cfg.SetProfile(name, profile); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if meta.Username != "" {
				success(ctx, "Logged in as %s (profile %s)", meta.Username, name)
			} else {
				success(ctx, "Token stored for profile %s", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "novem username")
	cmd.Flags().StringVar(&token, "token", "", "Store this API token instead of logging in")
	cmd.Flags().StringVar(&apiRoot, "api-root", "", "API root for this profile")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().StringVar(&tokenName, "token-name", "", "Name of the created token (defaults to novem-cli-<hostname>)")
	return cmd
}

func defaultTokenName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "novem-cli"
	}
	return "novem-cli-" + host
}

func prompt(ctx context.Context, r *bufio.Reader, label string) (string, error) {
	_, _ = fmt.Fprint(stderrFromContext(ctx), label)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(ctx context.Context, stdin io.Reader, r *bufio.Reader, fromStdin bool) (string, error) {
	if f, ok := stdin.(*os.File); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		stderr := stderrFromContext(ctx)
		_, _ = fmt.Fprint(stderr, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", clierrors.NewUserError("password is required", "Pipe it with --password-stdin or run in a terminal")
	}
	return pw, nil
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long: `Display which profile is active and where its token comes from.

Does not display the actual token value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, p, err := resolveProfile(ctx)
			if err != nil {
				return err
			}

			apiRoot := novem.DefaultAPIRoot
			if v := strings.TrimSpace(os.Getenv(envAPIRoot)); v != "" {
				apiRoot = v
			} else if p.APIRoot != "" {
				apiRoot = p.APIRoot
			}

			result := map[string]interface{}{
				"profile":       name,
				"api_root":      apiRoot,
				"authenticated": false,
				"token_source":  "none",
			}
			username := p.Username

			switch {
			case os.Getenv(auth.EnvVarName) != "":
				result["authenticated"] = true
				result["token_source"] = "environment variable (" + auth.EnvVarName + ")"
			case p.TokenSource == "" || p.TokenSource == "keyring":
				if meta, err := auth.GetTokenMetadata(name); err == nil {
					result["authenticated"] = true
					result["token_source"] = "system keyring"
					if meta.TokenName != "" {
						result["token_name"] = meta.TokenName
					}
					if !meta.CreatedAt.IsZero() {
						result["token_created_at"] = meta.CreatedAt.Format("2006-01-02")
					}
					if username == "" {
						username = meta.Username
					}
				}
			case strings.HasPrefix(p.TokenSource, "env:"):
				varName := strings.TrimPrefix(p.TokenSource, "env:")
				result["token_source"] = "environment variable (" + varName + ")"
				result["authenticated"] = os.Getenv(varName) != ""
			default:
				result["authenticated"] = true
				result["token_source"] = "config file"
			}
			if username != "" {
				result["username"] = username
			}

			return printerForContext(ctx).Print(ctx, result)
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		Long: `Remove the token stored in the keyring for the active profile.

The token itself stays valid on the server until it is revoked there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, _, err := resolveProfile(ctx)
			if err != nil {
				return err
			}
			if err := auth.DeleteToken(name); err != nil {
				return err
			}
			success(ctx, "Logged out of profile %s", name)
			return nil
		},
	}
}
