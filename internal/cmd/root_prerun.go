package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/novem-code/novem-cli/internal/config"
	"github.com/novem-code/novem-cli/internal/debug"
	clierrors "github.com/novem-code/novem-cli/internal/errors"
	"github.com/novem-code/novem-cli/internal/iocontext"
	"github.com/novem-code/novem-cli/internal/output"
	"github.com/novem-code/novem-cli/internal/ui"
)

// Environment overrides.
const (
	envProfile = "NOVEM_PROFILE"
	envOutput  = "NOVEM_OUTPUT"
	envAPIRoot = "NOVEM_API_ROOT"
)

type globalFlagInput struct {
	profile     string
	output      string
	query       string
	jsonPath    string
	color       string
	errorFormat string
	debug       bool
	quiet       bool
}

type globalOptions struct {
	profile     string
	format      output.Format
	query       string
	jsonPath    string
	color       ui.ColorMode
	errorFormat string
	debug       bool
	quiet       bool
}

// parseGlobalOptions merges flags, environment and config, in that order of
// precedence.
func parseGlobalOptions(cmd *cobra.Command, cfg *config.Config, flags globalFlagInput) (globalOptions, error) {
	opts := globalOptions{
		profile:     strings.TrimSpace(flags.profile),
		query:       strings.TrimSpace(flags.query),
		jsonPath:    strings.TrimSpace(flags.jsonPath),
		errorFormat: flags.errorFormat,
		debug:       flags.debug,
		quiet:       flags.quiet,
	}

	if opts.profile == "" {
		opts.profile = strings.TrimSpace(os.Getenv(envProfile))
	}

	formatStr := flags.output
	if !commandFlagChanged(cmd.Flags(), "output", "format") {
		if env := strings.TrimSpace(os.Getenv(envOutput)); env != "" {
			formatStr = env
		} else {
			formatStr = cfg.GetOutput()
		}
	}
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return globalOptions{}, clierrors.NewUserError(err.Error(), "Use one of: text, json, yaml")
	}
	opts.format = format

	colorStr := flags.color
	if !commandFlagChanged(cmd.Flags(), "color") {
		colorStr = cfg.GetColor()
	}
	mode, err := ui.ParseColorMode(colorStr)
	if err != nil {
		return globalOptions{}, clierrors.NewUserError(err.Error(), "Use one of: auto, always, never")
	}
	opts.color = mode

	if opts.query != "" && opts.jsonPath != "" {
		return globalOptions{}, clierrors.WrapUserError(errOnlyOne("--query", "--jsonpath"), "conflicting output filters", "Pick either a jq expression or a JSONPath")
	}
	if err := validateErrorFormat(opts.errorFormat); err != nil {
		return globalOptions{}, err
	}
	return opts, nil
}

func buildRootContext(ctx context.Context, app *App, cfg *config.Config, opts globalOptions) context.Context {
	ctx = iocontext.WithIO(ctx, app.Stdout, app.Stderr)
	ctx = iocontext.WithStdin(ctx, app.Stdin)
	ctx = output.WithFormat(ctx, opts.format)
	ctx = output.WithQuery(ctx, opts.query)
	ctx = output.WithJSONPath(ctx, opts.jsonPath)
	ctx = output.WithQuiet(ctx, opts.quiet)
	ctx = debug.WithDebug(ctx, opts.debug)
	ctx = WithConfig(ctx, cfg)
	ctx = WithProfile(ctx, opts.profile)
	ctx = WithErrorFormat(ctx, opts.errorFormat)
	ctx = WithColorMode(ctx, opts.color)
	ctx = WithVersion(ctx, app.Version)
	ctx = ui.WithUI(ctx, ui.New(opts.color, app.Stderr))
	return ctx
}

func errOnlyOne(left, right string) error {
	return fmt.Errorf("use only one of %s or %s", left, right)
}
