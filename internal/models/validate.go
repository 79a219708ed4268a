package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/desertthunder/fretlog/internal/shared"
)

// DateLayout is the layout of purchase and service dates.
const DateLayout = "2006-01-02"

// MinYear is the earliest accepted build year.
const MinYear = 1800

var currentYear = defaultYear

func defaultYear() int { return time.Now().Year() }

// Validate checks the rules enforced by the add and edit forms.
//
// Every violation is reported; the returned error wraps [shared.ErrInvalidInput].
func (in GuitarInput) Validate() error {
	return errors.Join(
		checkRequired("brand", in.Brand),
		checkRequired("model", in.Model),
		checkGuitarType(in.Type),
		checkYear(in.Year),
		checkDate("purchase date", in.PurchaseDate),
		checkNonNegative("purchase price", in.PurchasePrice),
		checkNonNegative("current value", in.CurrentValue),
	)
}

// Validate checks only the fields present in p. Clearing a required field is a violation.
func (p GuitarPatch) Validate() error {
	var errs []error
	if p.Brand.Present() {
		v, _ := p.Brand.Value()
		errs = append(errs, checkRequired("brand", v))
	}
	if p.Model.Present() {
		v, _ := p.Model.Value()
		errs = append(errs, checkRequired("model", v))
	}
	if p.Type.Present() {
		v, _ := p.Type.Value()
		errs = append(errs, checkGuitarType(v))
	}
	if p.Year.Present() {
		errs = append(errs, checkYear(p.Year.Ptr()))
	}
	if p.PurchaseDate.Present() {
		errs = append(errs, checkDate("purchase date", p.PurchaseDate.Ptr()))
	}
	if p.PurchasePrice.Present() {
		errs = append(errs, checkNonNegative("purchase price", p.PurchasePrice.Ptr()))
	}
	if p.CurrentValue.Present() {
		errs = append(errs, checkNonNegative("current value", p.CurrentValue.Ptr()))
	}
	return errors.Join(errs...)
}

// Validate checks the rules of the service record form.
func (in ServiceRecordInput) Validate() error {
	return errors.Join(
		checkGuitarID(in.GuitarID),
		checkServiceDate(in.Date),
		checkServiceType(in.Type),
		checkRequired("description", in.Description),
		checkNonNegative("cost", in.Cost),
	)
}

// Validate checks only the fields present in p.
func (p ServiceRecordPatch) Validate() error {
	var errs []error
	if p.GuitarID.Present() {
		v, _ := p.GuitarID.Value()
		errs = append(errs, checkGuitarID(v))
	}
	if p.Date.Present() {
		v, _ := p.Date.Value()
		errs = append(errs, checkServiceDate(v))
	}
	if p.Type.Present() {
		v, _ := p.Type.Value()
		errs = append(errs, checkServiceType(v))
	}
	if p.Description.Present() {
		v, _ := p.Description.Value()
		errs = append(errs, checkRequired("description", v))
	}
	if p.Cost.Present() {
		errs = append(errs, checkNonNegative("cost", p.Cost.Ptr()))
	}
	return errors.Join(errs...)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", shared.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func checkRequired(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func checkGuitarType(t GuitarType) error {
	if t == "" {
		return invalid("type is required")
	}
	if !t.Valid() {
		return invalid("unknown guitar type %q", t)
	}
	return nil
}

func checkServiceType(t ServiceType) error {
	if t == "" {
		return invalid("type is required")
	}
	if !t.Valid() {
		return invalid("unknown service type %q", t)
	}
	return nil
}

func checkYear(y *int) error {
	if y == nil {
		return nil
	}
	if *y < MinYear {
		return invalid("year must be %d or later", MinYear)
	}
	if *y > currentYear()+1 {
		return invalid("year cannot be in the future")
	}
	return nil
}

func checkNonNegative(field string, v *float64) error {
	if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return invalid("%s must be a finite number", field)
	}
	if v != nil && *v < 0 {
		return invalid("%s must be positive", field)
	}
	return nil
}

func checkDate(field string, v *string) error {
	if v == nil {
		return nil
	}
	if _, err := time.Parse(DateLayout, *v); err != nil {
		return invalid("%s must be a YYYY-MM-DD date", field)
	}
	return nil
}

func checkServiceDate(v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid("date is required")
	}
	return checkDate("date", &v)
}

func checkGuitarID(id int64) error {
	if id <= 0 {
		return invalid("guitar id is required")
	}
	return nil
}
