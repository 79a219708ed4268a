package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/fretlog/internal/formatter"
	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const guitarProperties = `
	"brand": {"type": "string", "description": "Manufacturer, e.g. Fender"},
	"model": {"type": "string", "description": "Model name, e.g. Stratocaster"},
	"type": {"type": "string", "enum": ["electric", "acoustic", "classical", "bass", "electric-acoustic", "twelve-string", "resonator", "other"]},
	"year": {"type": "integer", "description": "Year of manufacture"},
	"serialNumber": {"type": "string"},
	"purchaseDate": {"type": "string", "description": "YYYY-MM-DD"},
	"purchasePrice": {"type": "number"},
	"currentValue": {"type": "number"},
	"color": {"type": "string"},
	"notes": {"type": "string"},
	"photos": {"type": "array", "items": {"type": "string"}}`

const serviceRecordProperties = `
	"date": {"type": "string", "description": "YYYY-MM-DD"},
	"type": {"type": "string", "enum": ["string-change", "setup", "repair", "cleaning", "modification", "inspection", "other"]},
	"description": {"type": "string"},
	"cost": {"type": "number"},
	"notes": {"type": "string"}`

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "list_guitars",
		Description: "List the collection, most recently updated first. Optionally search brand, model, serial number and notes, or filter by type.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Case-insensitive search text"},
				"type": {"type": "string", "description": "Guitar type filter"}
			}
		}`),
	}, s.handleListGuitars)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_guitar",
		Description: "Get a guitar and its service history",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Guitar ID"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetGuitar)

	s.server.AddTool(&mcp.Tool{
		Name:        "add_guitar",
		Description: "Add a guitar to the collection",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {` + guitarProperties + `
			},
			"required": ["brand", "model", "type"]
		}`),
	}, s.handleAddGuitar)

	s.server.AddTool(&mcp.Tool{
		Name:        "update_guitar",
		Description: "Update a guitar. Only the given fields change; null clears an optional field.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Guitar ID"},` + guitarProperties + `
			},
			"required": ["id"]
		}`),
	}, s.handleUpdateGuitar)

	s.server.AddTool(&mcp.Tool{
		Name:        "delete_guitar",
		Description: "Delete a guitar together with all of its service records",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Guitar ID"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteGuitar)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_service_records",
		Description: "List service records, newest first. Pass guitarId to see one guitar's history.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"guitarId": {"type": "integer", "description": "Guitar ID"}
			}
		}`),
	}, s.handleListServiceRecords)

	s.server.AddTool(&mcp.Tool{
		Name:        "add_service_record",
		Description: "Log maintenance performed on a guitar",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"guitarId": {"type": "integer", "description": "Guitar ID"},` + serviceRecordProperties + `
			},
			"required": ["guitarId", "date", "type", "description"]
		}`),
	}, s.handleAddServiceRecord)

	s.server.AddTool(&mcp.Tool{
		Name:        "update_service_record",
		Description: "Update a service record. Only the given fields change; null clears cost or notes.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Service record ID"},` + serviceRecordProperties + `
			},
			"required": ["id"]
		}`),
	}, s.handleUpdateServiceRecord)

	s.server.AddTool(&mcp.Tool{
		Name:        "delete_service_record",
		Description: "Delete a single service record",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Service record ID"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteServiceRecord)

	s.server.AddTool(&mcp.Tool{
		Name:        "export_collection",
		Description: "Export the whole collection with service histories",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"format": {"type": "string", "enum": ["json", "yaml", "csv", "markdown", "text"], "default": "markdown"}
			}
		}`),
	}, s.handleExportCollection)
}

type idParams struct {
	ID int64 `json:"id"`
}

// guitarDetail is a guitar with its service history.
type guitarDetail struct {
	*models.Guitar
	ServiceRecords []*models.ServiceRecord `json:"serviceRecords"`
}

func (s *Server) handleListGuitars(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Query string `json:"query"`
		Type  string `json:"type"`
	}
	if err := decodeArgs(req, &params); err != nil {
		return errorResult("list guitars", err), nil
	}

	var guitarType models.GuitarType
	if params.Type != "" {
		t, err := models.ParseGuitarType(params.Type)
		if err != nil {
			return errorResult("list guitars", err), nil
		}
		guitarType = t
	}

	var (
		guitars []*models.Guitar
		err     error
	)
	switch query := strings.TrimSpace(params.Query); {
	case query != "":
		guitars, err = s.guitars.Search(ctx, query)
	case guitarType != "":
		guitars, err = s.guitars.GetByType(ctx, guitarType)
	default:
		guitars, err = s.guitars.GetAll(ctx)
	}
	if err != nil {
		return s.failure("list guitars", err), nil
	}

	if guitarType != "" {
		filtered := guitars[:0]
		for _, g := range guitars {
			if g.Type == guitarType {
				filtered = append(filtered, g)
			}
		}
		guitars = filtered
	}

	return jsonResult(guitars)
}

func (s *Server) handleGetGuitar(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params idParams
	if err := decodeArgs(req, &params); err != nil {
		return errorResult("get guitar", err), nil
	}

	guitar, err := s.guitars.GetByID(ctx, params.ID)
	if err != nil {
		return s.failure("get guitar", err), nil
	}
	records, err := s.records.GetByGuitarID(ctx, params.ID)
	if err != nil {
		return s.failure("get guitar", err), nil
	}

	return jsonResult(guitarDetail{Guitar: guitar, ServiceRecords: records})
}

func (s *Server) handleAddGuitar(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input models.GuitarInput
	if err := decodeArgs(req, &input); err != nil {
		return errorResult("add guitar", err), nil
	}
	if err := input.Validate(); err != nil {
		return errorResult("add guitar", err), nil
	}

	id, err := s.guitars.Create(ctx, input)
	if err != nil {
		return s.failure("add guitar", err), nil
	}

	s.logger.Info("guitar created", "id", id, "via", "mcp")
	return textResult(fmt.Sprintf("Added guitar %d: %s %s", id, input.Brand, input.Model)), nil
}

func (s *Server) handleUpdateGuitar(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params idParams
	var patch models.GuitarPatch
	if err := decodeArgs(req, &params, &patch); err != nil {
		return errorResult("update guitar", err), nil
	}
	if err := patch.Validate(); err != nil {
		return errorResult("update guitar", err), nil
	}

	n, err := s.guitars.Update(ctx, params.ID, patch)
	if err != nil {
		return s.failure("update guitar", err), nil
	}
	if n == 0 {
		return errorResult("update guitar", fmt.Errorf("%w: id %d", shared.ErrGuitarNotFound, params.ID)), nil
	}

	return textResult(fmt.Sprintf("Updated guitar %d", params.ID)), nil
}

func (s *Server) handleDeleteGuitar(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params idParams
	if err := decodeArgs(req, &params); err != nil {
		return errorResult("delete guitar", err), nil
	}

	guitar, err := s.guitars.GetByID(ctx, params.ID)
	if err != nil {
		return s.failure("delete guitar", err), nil
	}
	if err := s.guitars.Delete(ctx, params.ID); err != nil {
		return s.failure("delete guitar", err), nil
	}

	s.logger.Info("guitar deleted", "id", params.ID, "via", "mcp")
	return textResult(fmt.Sprintf("Deleted %s and its service records", guitar.DisplayName())), nil
}

func (s *Server) handleListServiceRecords(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		GuitarID int64 `json:"guitarId"`
	}
	if err := decodeArgs(req, &params); err != nil {
		return errorResult("list service records", err), nil
	}

	var (
		records []*models.ServiceRecord
		err     error
	)
	if params.GuitarID != 0 {
		if _, err := s.guitars.GetByID(ctx, params.GuitarID); err != nil {
			return s.failure("list service records", err), nil
		}
		records, err = s.records.GetByGuitarID(ctx, params.GuitarID)
	} else {
		records, err = s.records.GetAll(ctx)
	}
	if err != nil {
		return s.failure("list service records", err), nil
	}

	return jsonResult(records)
}

func (s *Server) handleAddServiceRecord(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input models.ServiceRecordInput
	if err := decodeArgs(req, &input); err != nil {
		return errorResult("add service record", err), nil
	}
	if err := input.Validate(); err != nil {
		return errorResult("add service record", err), nil
	}
	if _, err := s.guitars.GetByID(ctx, input.GuitarID); err != nil {
		return s.failure("add service record", err), nil
	}

	id, err := s.records.Create(ctx, input)
	if err != nil {
		return s.failure("add service record", err), nil
	}

	s.logger.Info("service record created", "id", id, "guitar_id", input.GuitarID, "via", "mcp")
	return textResult(fmt.Sprintf("Added service record %d", id)), nil
}

func (s *Server) handleUpdateServiceRecord(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params idParams
	var patch models.ServiceRecordPatch
	if err := decodeArgs(req, &params, &patch); err != nil {
		return errorResult("update service record", err), nil
	}
	if err := patch.Validate(); err != nil {
		return errorResult("update service record", err), nil
	}
	if guitarID, ok := patch.GuitarID.Value(); ok {
		if _, err := s.guitars.GetByID(ctx, guitarID); err != nil {
			return s.failure("update service record", err), nil
		}
	}

	n, err := s.records.Update(ctx, params.ID, patch)
	if err != nil {
		return s.failure("update service record", err), nil
	}
	if n == 0 {
		return errorResult("update service record", fmt.Errorf("%w: id %d", shared.ErrServiceRecordNotFound, params.ID)), nil
	}

	return textResult(fmt.Sprintf("Updated service record %d", params.ID)), nil
}

func (s *Server) handleDeleteServiceRecord(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params idParams
	if err := decodeArgs(req, &params); err != nil {
		return errorResult("delete service record", err), nil
	}

	if _, err := s.records.GetByID(ctx, params.ID); err != nil {
		return s.failure("delete service record", err), nil
	}
	if err := s.records.Delete(ctx, params.ID); err != nil {
		return s.failure("delete service record", err), nil
	}

	return textResult(fmt.Sprintf("Deleted service record %d", params.ID)), nil
}

func (s *Server) handleExportCollection(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := struct {
		Format string `json:"format"`
	}{Format: string(formatter.Markdown)}
	if err := decodeArgs(req, &params); err != nil {
		return errorResult("export collection", err), nil
	}

	format, err := formatter.ParseFormat(params.Format)
	if err != nil {
		return errorResult("export collection", err), nil
	}

	snapshot, err := formatter.BuildSnapshot(ctx, s.guitars, s.records)
	if err != nil {
		return s.failure("export collection", err), nil
	}
	data, err := formatter.Export(snapshot, format, s.currency)
	if err != nil {
		return s.failure("export collection", err), nil
	}

	return textResult(string(data)), nil
}

// decodeArgs unmarshals the tool arguments into each target in turn. Missing arguments decode as an empty object.
func decodeArgs(req *mcp.CallToolRequest, targets ...any) error {
	raw := req.Params.Arguments
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	for _, v := range targets {
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("%w: invalid arguments: %w", shared.ErrInvalidInput, err)
		}
	}
	return nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}

func errorResult(op string, err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("failed to %s: %v", op, err)},
		},
		IsError: true,
	}
}

// failure reports a repository error to the client, logging anything that is not a missing row.
func (s *Server) failure(op string, err error) *mcp.CallToolResult {
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("tool failed", "op", op, "error", err)
	}
	return errorResult(op, err)
}
