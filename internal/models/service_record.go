package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/fretlog/internal/shared"
)

// ServiceType is the closed set of maintenance categories.
type ServiceType string

const (
	StringChange ServiceType = "string-change"
	Setup        ServiceType = "setup"
	Repair       ServiceType = "repair"
	Cleaning     ServiceType = "cleaning"
	Modification ServiceType = "modification"
	Inspection   ServiceType = "inspection"
	OtherService ServiceType = "other"
)

// ServiceTypes lists every [ServiceType] in display order.
var ServiceTypes = []ServiceType{
	StringChange, Setup, Repair, Cleaning, Modification, Inspection, OtherService,
}

// Valid reports whether t is one of [ServiceTypes].
func (t ServiceType) Valid() bool {
	for _, known := range ServiceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable name, e.g. "String Change".
func (t ServiceType) Label() string {
	words := strings.Fields(strings.ReplaceAll(string(t), "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ParseServiceType converts user input into a [ServiceType], ignoring case and surrounding space.
func ParseServiceType(s string) (ServiceType, error) {
	t := ServiceType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown service type %q", shared.ErrInvalidInput, s)
	}
	return t, nil
}

// ServiceRecord is a maintenance event for one guitar.
//
// GuitarID is not enforced by the store; records are removed with their guitar only through
// [GuitarRepository.Delete].
type ServiceRecord struct {
	ID          int64       `json:"id" yaml:"id"`
	GuitarID    int64       `json:"guitarId" yaml:"guitar_id"`
	Date        string      `json:"date" yaml:"date"`
	Type        ServiceType `json:"type" yaml:"type"`
	Description string      `json:"description" yaml:"description"`
	Cost        *float64    `json:"cost,omitempty" yaml:"cost,omitempty"`
	Notes       *string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt   string      `json:"createdAt" yaml:"created_at"`
	UpdatedAt   string      `json:"updatedAt" yaml:"updated_at"`
}

// Input returns the writable fields of r.
func (r *ServiceRecord) Input() ServiceRecordInput {
	return ServiceRecordInput{
		GuitarID:    r.GuitarID,
		Date:        r.Date,
		Type:        r.Type,
		Description: r.Description,
		Cost:        r.Cost,
		Notes:       r.Notes,
	}
}

// ServiceRecordInput carries every field of a new [ServiceRecord] except the ones the repository maintains.
type ServiceRecordInput struct {
	GuitarID    int64       `json:"guitarId" yaml:"guitar_id"`
	Date        string      `json:"date" yaml:"date"`
	Type        ServiceType `json:"type" yaml:"type"`
	Description string      `json:"description" yaml:"description"`
	Cost        *float64    `json:"cost,omitempty" yaml:"cost,omitempty"`
	Notes       *string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// ServiceRecordPatch is a partial update of a [ServiceRecord].
type ServiceRecordPatch struct {
	GuitarID    Field[int64]       `json:"guitarId"`
	Date        Field[string]      `json:"date"`
	Type        Field[ServiceType] `json:"type"`
	Description Field[string]      `json:"description"`
	Cost        Field[float64]     `json:"cost"`
	Notes       Field[string]      `json:"notes"`
}

// Empty reports whether no field is present.
func (p ServiceRecordPatch) Empty() bool {
	return !p.GuitarID.Present() && !p.Date.Present() && !p.Type.Present() &&
		!p.Description.Present() && !p.Cost.Present() && !p.Notes.Present()
}
