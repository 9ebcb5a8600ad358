package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/novem-code/novem-cli/internal/auth"
	"github.com/novem-code/novem-cli/internal/config"
	"github.com/novem-code/novem-cli/internal/output"
	"github.com/novem-code/novem-cli/internal/validate"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Manage CLI configuration",
		Long:    `Manage the novem configuration file at ~/.config/novem/config.yaml (override with NOVEM_CONFIG).`,
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigProfileCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := stdoutFromContext(ctx)
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if output.FormatFromContext(ctx).Structured() {
				return printerForContext(ctx).Print(ctx, cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to format config: %w", err)
			}

			if len(data) == 0 || string(data) == "{}\n" {
				path, _ := config.DefaultConfigPath()
				_, _ = fmt.Fprintf(out, "No configuration file found at %s\n", path)
				_, _ = fmt.Fprintln(out, "\nTo get started, use:")
				_, _ = fmt.Fprintln(out, "  novem auth login --username <name>")
				return nil
			}

			_, _ = fmt.Fprint(out, string(data))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Supported keys:
  output          - Default output format (text, json, yaml)
  color           - Default color mode (auto, always, never)
  default_profile - Profile used when --profile and NOVEM_PROFILE are unset

Examples:
  novem config set output json
  novem config set color never
  novem config set default_profile staging`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if key == "output" {
				format, err := output.ParseFormat(value)
				if err != nil {
					return fmt.Errorf("invalid output format %q, must be one of: text, json, yaml", value)
				}
				value = string(format)
			}
			if err := cfg.Set(key, value); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			path, _ := config.DefaultConfigPath()
			_, _ = fmt.Fprintf(stdoutFromContext(cmd.Context()), "Set %s = %s in %s\n", key, value, path)
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}
			_, _ = fmt.Fprintln(stdoutFromContext(cmd.Context()), path)
			return nil
		},
	}
}

func newConfigProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Manage connection profiles",
		Long: `Manage connection profiles.

A profile names a novem account: its username, API root and where its
token is read from (keyring, env:VAR or a literal token).`,
	}
	cmd.AddCommand(newConfigProfileListCmd())
	cmd.AddCommand(newConfigProfileAddCmd())
	cmd.AddCommand(newConfigProfileRemoveCmd())
	cmd.AddCommand(newConfigProfileUseCmd())
	return cmd
}

func newConfigProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			names := cfg.ListProfiles()

			if output.FormatFromContext(ctx).Structured() {
				type profileEntry struct {
					Name     string `json:"name"`
					Username string `json:"username,omitempty"`
					APIRoot  string `json:"api_root,omitempty"`
					Default  bool   `json:"default"`
				}
				entries := make([]profileEntry, 0, len(names))
				for _, n := range names {
					p := cfg.Profiles[n]
					entries = append(entries, profileEntry{Name: n, Username: p.Username, APIRoot: p.APIRoot, Default: n == cfg.DefaultProfile})
				}
				return printerForContext(ctx).Print(ctx, entries)
			}

			out := stdoutFromContext(ctx)
			for _, n := range names {
				marker := "  "
				if n == cfg.DefaultProfile {
					marker = "* "
				}
				line := marker + n
				if u := cfg.Profiles[n].Username; u != "" {
					line += " (" + u + ")"
				}
				_, _ = fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newConfigProfileAddCmd() *cobra.Command {
	var p config.Profile
	var makeDefault bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or update a profile",
		Long: `Add or update a profile. Flags that are not given keep their current value.

Examples:
  novem config profile add work --username alice
  novem config profile add ci --token-source env:CI_NOVEM_TOKEN
  novem config profile add staging --api-root https://staging.novem.no/v1/ --ignore-ssl-warn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			merged := cfg.Profiles[name]
			fs := cmd.Flags()
			if commandFlagChanged(fs, "username") {
				merged.Username = p.Username
			}
			if commandFlagChanged(fs, "api-root") {
				if p.APIRoot != "" {
					if err := validate.APIRoot("api_root", p.APIRoot); err != nil {
						return err
					}
				}
				merged.APIRoot = p.APIRoot
			}
			if commandFlagChanged(fs, "token-source") {
				merged.TokenSource = p.TokenSource
			}
			if commandFlagChanged(fs, "ignore-ssl-warn") {
				merged.IgnoreSSLWarn = p.IgnoreSSLWarn
			}

			if err := cfg.SetProfile(name, merged); err != nil {
				return err
			}
			if makeDefault {
				if err := cfg.SetDefaultProfile(name); err != nil {
					return err
				}
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			success(cmd.Context(), "Profile %s saved", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&p.Username, "username", "u", "", "novem username")
	cmd.Flags().StringVar(&p.APIRoot, "api-root", "", "API root URL")
	cmd.Flags().StringVar(&p.TokenSource, "token-source", "", "Token source: keyring, env:VAR or a literal token")
	cmd.Flags().BoolVar(&p.IgnoreSSLWarn, "ignore-ssl-warn", false, "Skip TLS certificate verification")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Make this the default profile")
	return cmd
}

func newConfigProfileRemoveCmd() *cobra.Command {
	var keepToken bool

	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a profile and its stored token",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.RemoveProfile(name); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			if !keepToken {
				if err := auth.DeleteToken(name); err != nil {
					_, _ = fmt.Fprintf(stderrFromContext(cmd.Context()), "warning: %v\n", err)
				}
			}
			success(cmd.Context(), "Profile %s removed", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepToken, "keep-token", false, "Leave the keyring token in place")
	return cmd
}

func newConfigProfileUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.SetDefaultProfile(args[0]); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			success(cmd.Context(), "Default profile is now %s", args[0])
			if os.Getenv(envProfile) != "" {
				_, _ = fmt.Fprintf(stderrFromContext(cmd.Context()), "note: %s is set and takes precedence\n", envProfile)
			}
			return nil
		},
	}
}
