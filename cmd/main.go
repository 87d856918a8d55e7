package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/desertthunder/audious/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "audious",
		Usage:    "Pick the albums missing from your playlists, report statistics and export playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			fmt.Fprintln(os.Stderr, "\nOperation interrupted")
			os.Exit(1)
		case shared.IsFatal(err), errors.Is(err, shared.ErrExportLocked):
			logger.Fatal(err)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
