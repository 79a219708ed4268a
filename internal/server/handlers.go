package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
)

const (
	listGuitars         = "GET /api/guitars"
	createGuitar        = "POST /api/guitars"
	getGuitar           = "GET /api/guitars/{id}"
	updateGuitar        = "PATCH /api/guitars/{id}"
	deleteGuitar        = "DELETE /api/guitars/{id}"
	listGuitarRecords   = "GET /api/guitars/{id}/service-records"
	createGuitarRecord  = "POST /api/guitars/{id}/service-records"
	listServiceRecords  = "GET /api/service-records"
	getServiceRecord    = "GET /api/service-records/{id}"
	updateServiceRecord = "PATCH /api/service-records/{id}"
	deleteServiceRecord = "DELETE /api/service-records/{id}"
)

type createdBody struct {
	ID int64 `json:"id"`
}

type updatedBody struct {
	Updated int64 `json:"updated"`
}

// GuitarHandler serves the guitar routes, including a guitar's nested service records.
type GuitarHandler struct {
	guitars models.GuitarRepository
	records models.ServiceRecordRepository
	logger  *log.Logger
}

// NewGuitarHandler creates a [GuitarHandler].
func NewGuitarHandler(guitars models.GuitarRepository, records models.ServiceRecordRepository, logger *log.Logger) *GuitarHandler {
	return &GuitarHandler{guitars: guitars, records: records, logger: logger}
}

// Routes implements [Handler].
func (h *GuitarHandler) Routes() []string {
	return []string{listGuitars, createGuitar, getGuitar, updateGuitar, deleteGuitar, listGuitarRecords, createGuitarRecord}
}

// ServeHTTP dispatches on the matched route pattern.
func (h *GuitarHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var err error
	switch r.Pattern {
	case listGuitars:
		err = h.list(w, r)
	case createGuitar:
		err = h.create(w, r)
	case getGuitar:
		err = h.get(w, r)
	case updateGuitar:
		err = h.update(w, r)
	case deleteGuitar:
		err = h.delete(w, r)
	case listGuitarRecords:
		err = h.listRecords(w, r)
	case createGuitarRecord:
		err = h.createRecord(w, r)
	default:
		http.NotFound(w, r)
		return
	}

	if err != nil {
		writeError(w, r, h.logger, err)
	}
}

// list returns the collection. q searches brand, model, serial number and notes; type filters by guitar type.
// A blank q lists everything.
func (h *GuitarHandler) list(w http.ResponseWriter, r *http.Request) error {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var guitarType models.GuitarType
	if t := r.URL.Query().Get("type"); t != "" {
		parsed, err := models.ParseGuitarType(t)
		if err != nil {
			return err
		}
		guitarType = parsed
	}

	var (
		guitars []*models.Guitar
		err     error
	)
	switch {
	case query != "":
		guitars, err = h.guitars.Search(r.Context(), query)
		if err == nil && guitarType != "" {
			guitars = filterByType(guitars, guitarType)
		}
	case guitarType != "":
		guitars, err = h.guitars.GetByType(r.Context(), guitarType)
	default:
		guitars, err = h.guitars.GetAll(r.Context())
	}
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, guitars)
}

func filterByType(guitars []*models.Guitar, t models.GuitarType) []*models.Guitar {
	filtered := make([]*models.Guitar, 0, len(guitars))
	for _, g := range guitars {
		if g.Type == t {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

func (h *GuitarHandler) create(w http.ResponseWriter, r *http.Request) error {
	var input models.GuitarInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}
	if err := input.Validate(); err != nil {
		return err
	}

	id, err := h.guitars.Create(r.Context(), input)
	if err != nil {
		return err
	}

	h.logger.Info("guitar created", "id", id, "request_id", RequestIDFrom(r.Context()))
	w.Header().Set("Location", fmt.Sprintf("/api/guitars/%d", id))
	return writeJSON(w, http.StatusCreated, createdBody{ID: id})
}

func (h *GuitarHandler) get(w http.ResponseWriter, r *http.Request) error {
	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		return err
	}

	guitar, err := h.guitars.GetByID(r.Context(), id)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, guitar)
}

// update applies a JSON merge: keys present in the body are written, null clears an optional field.
func (h *GuitarHandler) update(w http.ResponseWriter, r *http.Request) error {
	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		return err
	}

	var patch models.GuitarPatch
	if err := decodeJSON(r, &patch); err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	n, err := h.guitars.Update(r.Context(), id, patch)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrGuitarNotFound, id)
	}

	return writeJSON(w, http.StatusOK, updatedBody{Updated: n})
}

func (h *GuitarHandler) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		return err
	}

	if err := h.guitars.Delete(r.Context(), id); err != nil {
		return err
	}

	h.logger.Info("guitar deleted", "id", id, "request_id", RequestIDFrom(r.Context()))
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *GuitarHandler) listRecords(w http.ResponseWriter, r *http.Request) error {
	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		return err
	}

	if _, err := h.guitars.GetByID(r.Context(), id); err != nil {
		return err
	}

	records, err := h.records.GetByGuitarID(r.Context(), id)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, records)
}

// createRecord adds a service record to the guitar in the path; a guitarId in the body is ignored.
func (h *GuitarHandler) createRecord(w http.ResponseWriter, r *http.Request) error {
	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		return err
	}

	var input models.ServiceRecordInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}
	input.GuitarID = id
	if err := input.Validate(); err != nil {
		return err
	}

	if _, err := h.guitars.GetByID(r.Context(), id); err != nil {
		return err
	}

	recordID, err := h.records.Create(r.Context(), input)
	if err != nil {
		return err
	}

	h.logger.Info("service record created", "id", recordID, "guitar_id", id, "request_id", RequestIDFrom(r.Context()))
	w.Header().Set("Location", fmt.Sprintf("/api/service-records/%d", recordID))
	return writeJSON(w, http.StatusCreated, createdBody{ID: recordID})
}

// ServiceRecordHandler serves the top-level service record routes.
//
// The guitar repository is consulted when a patch moves a record to another guitar.
type ServiceRecordHandler struct {
	guitars models.GuitarRepository
	records models.ServiceRecordRepository
	logger  *log.Logger
}

// NewServiceRecordHandler creates a [ServiceRecordHandler].
func NewServiceRecordHandler(guitars models.GuitarRepository, records models.ServiceRecordRepository, logger *log.Logger) *ServiceRecordHandler {
	return &ServiceRecordHandler{guitars: guitars, records: records, logger: logger}
}

// Routes implements [Handler].
func (h *ServiceRecordHandler) Routes() []string {
	return []string{listServiceRecords, getServiceRecord, updateServiceRecord, deleteServiceRecord}
}

// ServeHTTP dispatches on the matched route pattern.
func (h *ServiceRecordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var err error
	switch r.Pattern {
	case listServiceRecords:
		err = h.list(w, r)
	case getServiceRecord:
		err = h.get(w, r)
	case updateServiceRecord:
		err = h.update(w, r)
	case deleteServiceRecord:
		err = h.delete(w, r)
	default:
		http.NotFound(w, r)
		return
	}

	if err != nil {
		writeError(w, r, h.logger, err)
	}
}

func (h *ServiceRecordHandler) list(w http.ResponseWriter, r *http.Request) error {
	records, err := h.records.GetAll(r.Context())
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, records)
}

func (h *ServiceRecordHandler) get(w http.ResponseWriter, r *http.Request) error {
	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		return err
	}

	record, err := h.records.GetByID(r.Context(), id)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, record)
}

func (h *ServiceRecordHandler) update(w http.ResponseWriter, r *http.Request) error {
	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		return err
	}

	var patch models.ServiceRecordPatch
	if err := decodeJSON(r, &patch); err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	if guitarID, ok := patch.GuitarID.Value(); ok {
		if _, err := h.guitars.GetByID(r.Context(), guitarID); err != nil {
			return err
		}
	}

	n, err := h.records.Update(r.Context(), id, patch)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrServiceRecordNotFound, id)
	}

	return writeJSON(w, http.StatusOK, updatedBody{Updated: n})
}

func (h *ServiceRecordHandler) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		return err
	}

	if err := h.records.Delete(r.Context(), id); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
