// Package mcp exposes the guitar collection to AI agents over the Model Context Protocol.
//
// Tools mirror the CLI's guitar and service record commands. Each guitar is also readable as a
// Markdown resource at fretlog://guitar/{id}.
package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fretlog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to clients during initialization.
const Version = "1.0.0"

// Server wraps an [mcp.Server] bound to the collection's repositories.
type Server struct {
	server   *mcp.Server
	guitars  models.GuitarRepository
	records  models.ServiceRecordRepository
	currency string
	logger   *log.Logger
}

// NewServer registers every tool, resource and prompt.
//
// Stdout carries the protocol, so logger must write elsewhere.
func NewServer(guitars models.GuitarRepository, records models.ServiceRecordRepository, currency string, logger *log.Logger) *Server {
	s := &Server{guitars: guitars, records: records, currency: currency, logger: logger}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "fretlog",
			Version: Version,
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// Serve runs the server over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
