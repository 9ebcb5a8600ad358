package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/novem-code/novem-cli/internal/config"
	"github.com/novem-code/novem-cli/internal/logging"
	"github.com/novem-code/novem-cli/internal/novem"
)

func newRootCmd(app *App) *cobra.Command {
	var flags globalFlagInput

	rootCmd := &cobra.Command{
		Use:   "novem",
		Short: "Command-line client for novem",
		Long: `Create, update and share novem plots and mails from the terminal.

Resources are addressed by name. Use 'novem plot list' to see your plots,
'novem plot write <name> data @file.csv' to upload data, and
'novem plot show <name>' to render a plot in the terminal.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(flags.debug, app.Stderr, logging.FormatFromEnv())

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			opts, err := parseGlobalOptions(cmd, cfg, flags)
			if err != nil {
				return err
			}

			cmd.SetContext(buildRootContext(cmd.Context(), app, cfg, opts))
			return nil
		},
	}

	rootCmd.SetOut(app.Stdout)
	rootCmd.SetErr(app.Stderr)
	rootCmd.SetIn(app.Stdin)

	rootCmd.Version = app.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("novem %s (commit: %s, built: %s)\n", app.Version, app.Commit, app.BuildTime))

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.profile, "profile", "p", "", "Config profile to use (overrides NOVEM_PROFILE)")
	pf.StringVarP(&flags.output, "output", "o", "", "Output format: text|json|yaml")
	pf.StringVarP(&flags.query, "query", "q", "", "jq expression applied to structured output")
	pf.StringVar(&flags.jsonPath, "jsonpath", "", "Extract a value using JSONPath (e.g. $[0].id)")
	pf.StringVar(&flags.color, "color", "", "Color output: auto|always|never")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging (shows HTTP requests/responses)")
	pf.StringVar(&flags.errorFormat, "error-format", "auto", "Error output format: auto|text|json|yaml")
	pf.BoolVar(&flags.quiet, "quiet", false, "Suppress status messages")

	flagAlias(pf, "query", "jq")
	flagAlias(pf, "output", "format")

	rootCmd.AddCommand(newVisCmd(novem.KindPlot))
	rootCmd.AddCommand(newVisCmd(novem.KindMail))
	rootCmd.AddCommand(newInviteCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
