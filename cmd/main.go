package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/fretlog/internal/formatter"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:    "fretlog",
		Usage:   "Keep track of your guitars and their service history",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, runner.loadConfig(cmd)
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			return runner.Close()
		},
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		runner.Close()
		switch {
		case errors.Is(err, shared.ErrNotFound):
			fmt.Fprintln(os.Stderr, formatter.Error(err.Error()))
			os.Exit(1)
		case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrUnsupportedFormat):
			fmt.Fprintln(os.Stderr, formatter.Error(err.Error()))
			os.Exit(2)
		case errors.Is(err, shared.ErrOperationCancelled):
			os.Exit(0)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
