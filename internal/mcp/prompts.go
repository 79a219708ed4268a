package mcp

import (
	"context"
	"fmt"

	"github.com/desertthunder/fretlog/internal/formatter"
	"github.com/desertthunder/fretlog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "maintenance-plan",
		Description: "Suggest upcoming maintenance for a guitar based on its service history",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "guitar_id",
				Description: "ID of the guitar",
				Required:    true,
			},
		},
	}, s.getMaintenancePlanPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "appraise-collection",
		Description: "Review purchase prices against current values across the collection",
	}, s.getAppraisePrompt)
}

func (s *Server) getMaintenancePlanPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id, err := models.ParseID(req.Params.Arguments["guitar_id"])
	if err != nil {
		return nil, err
	}

	guitar, err := s.guitars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.records.GetByGuitarID(ctx, id)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`Here is a guitar and its full service history:

%s
Based on the dates and kinds of past service, suggest what maintenance is due next and roughly when.
Call out anything that looks overdue. Use the add_service_record tool to log work once it is done.`,
		formatter.GuitarMarkdown(guitar, records, s.currency, "#"))

	return &mcp.GetPromptResult{
		Description: "Maintenance plan for " + guitar.DisplayName(),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}, nil
}

func (s *Server) getAppraisePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	snapshot, err := formatter.BuildSnapshot(ctx, s.guitars, s.records)
	if err != nil {
		return nil, err
	}
	md, err := formatter.ExportToMarkdown(snapshot, s.currency)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`Here is my guitar collection:

%s
Compare each guitar's purchase price with its current value. Point out guitars with no recorded value,
and suggest which values are likely out of date. Use the update_guitar tool to record new values I confirm.`, md)

	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}, nil
}
