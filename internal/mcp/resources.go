package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/desertthunder/fretlog/internal/formatter"
	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const guitarURIPrefix = "fretlog://guitar/"

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: guitarURIPrefix + "{id}",
			Name:        "Guitar",
			Description: "A guitar's details and service history as Markdown",
			MIMEType:    "text/markdown",
		},
		s.handleReadGuitar,
	)
}

func (s *Server) handleReadGuitar(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	id, err := models.ParseID(strings.TrimPrefix(uri, guitarURIPrefix))
	if err != nil || !strings.HasPrefix(uri, guitarURIPrefix) {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	guitar, err := s.guitars.GetByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, err
	}

	records, err := s.records.GetByGuitarID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "text/markdown",
				Text:     string(formatter.GuitarMarkdown(guitar, records, s.currency, "#")),
			},
		},
	}, nil
}
