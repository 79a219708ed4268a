package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fretlog/internal/shared"
)

const (
	operationFailed = "operation failed"
	maxBodyBytes    = 1 << 20
)

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v before writing the header, so an encoding failure is returned to the caller
// and can still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	if v == nil {
		w.WriteHeader(status)
		return nil
	}

	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
	return nil
}

// writeError maps err onto a status code.
//
// Invalid input and not-found errors are returned to the client as-is. Anything else is logged and
// reported as a generic failure.
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, shared.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		logger.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path,
			"request_id", RequestIDFrom(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: operationFailed})
	}
}

// decodeJSON reads a single JSON document into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %w", shared.ErrInvalidInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", shared.ErrInvalidInput)
	}
	return nil
}
