package main

import (
	"context"
	"os"

	"github.com/desertthunder/fretlog/internal/mcp"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// MCP serves the collection to an AI agent over stdio. Logs go to stderr since stdout carries the protocol.
func (r *Runner) MCP(ctx context.Context, cmd *cli.Command) error {
	guitars, records, err := r.repos()
	if err != nil {
		return err
	}

	logger := shared.WithLogger(shared.NewLogger(os.Stderr), "component", "mcp")
	logger.SetLevel(r.logger.GetLevel())

	return mcp.NewServer(guitars, records, r.currency(), logger).Serve(ctx)
}
