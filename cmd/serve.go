package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/fretlog/internal/server"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	guitars, records, err := r.repos()
	if err != nil {
		return err
	}

	config := r.config.Server
	if cmd.IsSet("host") {
		config.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		config.Port = int(cmd.Int("port"))
	}

	srv := server.New(config, guitars, records, shared.WithLogger(r.logger, "component", "api"))

	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s/api/guitars", config.Addr())
		go func() {
			// Give the listener a moment to bind before the browser asks for the page.
			select {
			case <-time.After(500 * time.Millisecond):
			case <-ctx.Done():
				return
			}
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warn("failed to open browser", "url", url, "error", err)
			}
		}()
	}

	return srv.ListenAndServe(ctx)
}
