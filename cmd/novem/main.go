package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/novem-code/novem-cli/internal/cmd"
	"github.com/novem-code/novem-cli/internal/update"
)

// Version information set via ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	app := cmd.NewApp()
	app.Version = Version
	app.Commit = Commit
	app.BuildTime = BuildTime
	err := app.Execute(ctx, os.Args[1:])

	// Only interactive sessions get the upgrade notice; scripts parse stdout/stderr.
	if err == nil && term.IsTerminal(int(os.Stderr.Fd())) {
		if msg := update.Notice(ctx, Version); msg != "" {
			fmt.Fprintln(os.Stderr, "\n"+msg)
		}
	}

	if err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
