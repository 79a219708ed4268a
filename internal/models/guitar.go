package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/fretlog/internal/shared"
)

// GuitarType is the closed set of instrument categories.
type GuitarType string

const (
	Electric         GuitarType = "electric"
	Acoustic         GuitarType = "acoustic"
	Classical        GuitarType = "classical"
	Bass             GuitarType = "bass"
	ElectricAcoustic GuitarType = "electric-acoustic"
	TwelveString     GuitarType = "twelve-string"
	Resonator        GuitarType = "resonator"
	OtherGuitar      GuitarType = "other"
)

// GuitarTypes lists every [GuitarType] in display order.
var GuitarTypes = []GuitarType{
	Electric, Acoustic, Classical, Bass, ElectricAcoustic, TwelveString, Resonator, OtherGuitar,
}

// Valid reports whether t is one of [GuitarTypes].
func (t GuitarType) Valid() bool {
	for _, known := range GuitarTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable name, e.g. "Electric-Acoustic".
func (t GuitarType) Label() string {
	parts := strings.Split(string(t), "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "-")
}

// ParseGuitarType converts user input into a [GuitarType], ignoring case and surrounding space.
func ParseGuitarType(s string) (GuitarType, error) {
	t := GuitarType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown guitar type %q", shared.ErrInvalidInput, s)
	}
	return t, nil
}

// Guitar is an instrument in the collection.
//
// ID, CreatedAt and UpdatedAt are maintained by the repository. CreatedAt and UpdatedAt are ISO-8601 UTC strings.
type Guitar struct {
	ID            int64      `json:"id" yaml:"id"`
	Brand         string     `json:"brand" yaml:"brand"`
	Model         string     `json:"model" yaml:"model"`
	Type          GuitarType `json:"type" yaml:"type"`
	Year          *int       `json:"year,omitempty" yaml:"year,omitempty"`
	SerialNumber  *string    `json:"serialNumber,omitempty" yaml:"serial_number,omitempty"`
	PurchaseDate  *string    `json:"purchaseDate,omitempty" yaml:"purchase_date,omitempty"`
	PurchasePrice *float64   `json:"purchasePrice,omitempty" yaml:"purchase_price,omitempty"`
	CurrentValue  *float64   `json:"currentValue,omitempty" yaml:"current_value,omitempty"`
	Color         *string    `json:"color,omitempty" yaml:"color,omitempty"`
	Notes         *string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Photos        []string   `json:"photos,omitempty" yaml:"photos,omitempty"`
	CreatedAt     string     `json:"createdAt" yaml:"created_at"`
	UpdatedAt     string     `json:"updatedAt" yaml:"updated_at"`
}

// DisplayName joins year, brand and model, e.g. "1965 Fender Stratocaster".
func (g *Guitar) DisplayName() string {
	name := g.Brand + " " + g.Model
	if g.Year != nil {
		name = strconv.Itoa(*g.Year) + " " + name
	}
	return name
}

// Input returns the writable fields of g.
func (g *Guitar) Input() GuitarInput {
	return GuitarInput{
		Brand:         g.Brand,
		Model:         g.Model,
		Type:          g.Type,
		Year:          g.Year,
		SerialNumber:  g.SerialNumber,
		PurchaseDate:  g.PurchaseDate,
		PurchasePrice: g.PurchasePrice,
		CurrentValue:  g.CurrentValue,
		Color:         g.Color,
		Notes:         g.Notes,
		Photos:        g.Photos,
	}
}

// GuitarInput carries every field of a new [Guitar] except the ones the repository maintains.
type GuitarInput struct {
	Brand         string     `json:"brand" yaml:"brand"`
	Model         string     `json:"model" yaml:"model"`
	Type          GuitarType `json:"type" yaml:"type"`
	Year          *int       `json:"year,omitempty" yaml:"year,omitempty"`
	SerialNumber  *string    `json:"serialNumber,omitempty" yaml:"serial_number,omitempty"`
	PurchaseDate  *string    `json:"purchaseDate,omitempty" yaml:"purchase_date,omitempty"`
	PurchasePrice *float64   `json:"purchasePrice,omitempty" yaml:"purchase_price,omitempty"`
	CurrentValue  *float64   `json:"currentValue,omitempty" yaml:"current_value,omitempty"`
	Color         *string    `json:"color,omitempty" yaml:"color,omitempty"`
	Notes         *string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Photos        []string   `json:"photos,omitempty" yaml:"photos,omitempty"`
}

// GuitarPatch is a partial update of a [Guitar].
//
// Absent fields are left unchanged. Clearing Brand, Model or Type is rejected by [GuitarPatch.Validate].
type GuitarPatch struct {
	Brand         Field[string]     `json:"brand"`
	Model         Field[string]     `json:"model"`
	Type          Field[GuitarType] `json:"type"`
	Year          Field[int]        `json:"year"`
	SerialNumber  Field[string]     `json:"serialNumber"`
	PurchaseDate  Field[string]     `json:"purchaseDate"`
	PurchasePrice Field[float64]    `json:"purchasePrice"`
	CurrentValue  Field[float64]    `json:"currentValue"`
	Color         Field[string]     `json:"color"`
	Notes         Field[string]     `json:"notes"`
	Photos        Field[[]string]   `json:"photos"`
}

// Empty reports whether no field is present.
func (p GuitarPatch) Empty() bool {
	return !p.Brand.Present() && !p.Model.Present() && !p.Type.Present() && !p.Year.Present() &&
		!p.SerialNumber.Present() && !p.PurchaseDate.Present() && !p.PurchasePrice.Present() &&
		!p.CurrentValue.Present() && !p.Color.Present() && !p.Notes.Present() && !p.Photos.Present()
}

// PatchFromInput builds a patch that overwrites every writable field with the values in input,
// clearing optional fields that input leaves nil. This is what a full edit form submits.
func PatchFromInput(input GuitarInput) GuitarPatch {
	patch := GuitarPatch{
		Brand:         Set(input.Brand),
		Model:         Set(input.Model),
		Type:          Set(input.Type),
		Year:          SetPtr(input.Year),
		SerialNumber:  SetPtr(input.SerialNumber),
		PurchaseDate:  SetPtr(input.PurchaseDate),
		PurchasePrice: SetPtr(input.PurchasePrice),
		CurrentValue:  SetPtr(input.CurrentValue),
		Color:         SetPtr(input.Color),
		Notes:         SetPtr(input.Notes),
	}
	if input.Photos != nil {
		patch.Photos = Set(input.Photos)
	}
	return patch
}
