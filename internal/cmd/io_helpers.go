package cmd

import (
	"context"
	"io"
	"os"

	"github.com/muesli/termenv"

	"github.com/novem-code/novem-cli/internal/iocontext"
	"github.com/novem-code/novem-cli/internal/output"
	"github.com/novem-code/novem-cli/internal/table"
	"github.com/novem-code/novem-cli/internal/ui"
)

func stdoutFromContext(ctx context.Context) io.Writer {
	return iocontext.StdoutOrDefault(ctx, os.Stdout)
}

func stderrFromContext(ctx context.Context) io.Writer {
	return iocontext.StderrOrDefault(ctx, os.Stderr)
}

func stdinFromContext(ctx context.Context) io.Reader {
	return iocontext.StdinOrDefault(ctx, os.Stdin)
}

func printerForContext(ctx context.Context) *output.Printer {
	return output.NewPrinter(stdoutFromContext(ctx), output.FormatFromContext(ctx))
}

// tableOptions sizes and colors tables for the command's stdout.
func tableOptions(ctx context.Context) table.Options {
	stdout := stdoutFromContext(ctx)
	profile := ui.Profile(ColorModeFromContext(ctx), stdout)
	return table.Options{
		Width:   table.TerminalWidth(stdout),
		Color:   profile != termenv.Ascii,
		Profile: profile,
	}
}

// success reports a completed action on stderr unless --quiet is set.
func success(ctx context.Context, format string, args ...any) {
	if output.QuietFromContext(ctx) {
		return
	}
	ui.FromContext(ctx).Success(format, args...)
}
