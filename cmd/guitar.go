package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/fretlog/internal/formatter"
	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// guitarDetail is the JSON shape of guitar show.
type guitarDetail struct {
	*models.Guitar
	ServiceRecords []*models.ServiceRecord `json:"serviceRecords"`
}

// GuitarList prints the collection, optionally filtered by type.
func (r *Runner) GuitarList(ctx context.Context, cmd *cli.Command) error {
	guitars, _, err := r.repos()
	if err != nil {
		return err
	}

	var list []*models.Guitar
	if t := cmd.String("type"); t != "" {
		guitarType, err := models.ParseGuitarType(t)
		if err != nil {
			return err
		}
		list, err = guitars.GetByType(ctx, guitarType)
		if err != nil {
			return err
		}
	} else if list, err = guitars.GetAll(ctx); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, true)
	}
	return r.writePlain("%s", formatter.FormatGuitarList(list, r.currency()))
}

// GuitarSearch matches the query against brand, model, serial number and notes. A blank query lists everything.
func (r *Runner) GuitarSearch(ctx context.Context, cmd *cli.Command) error {
	guitars, _, err := r.repos()
	if err != nil {
		return err
	}

	query := strings.TrimSpace(cmd.StringArg("query"))

	var list []*models.Guitar
	if query == "" {
		list, err = guitars.GetAll(ctx)
	} else {
		list, err = guitars.Search(ctx, query)
	}
	if err != nil {
		return err
	}

	r.logger.Debug("search complete", "query", query, "matches", len(list))
	if cmd.Bool("json") {
		return r.writeJSON(list, true)
	}
	return r.writePlain("%s", formatter.FormatGuitarList(list, r.currency()))
}

// GuitarShow prints one guitar with its service history.
func (r *Runner) GuitarShow(ctx context.Context, cmd *cli.Command) error {
	guitars, records, err := r.repos()
	if err != nil {
		return err
	}

	id, err := models.ParseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	guitar, err := guitars.GetByID(ctx, id)
	if err != nil {
		return err
	}
	history, err := records.GetByGuitarID(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(guitarDetail{Guitar: guitar, ServiceRecords: history}, true)
	case cmd.Bool("markdown"):
		return r.writePlain("%s", formatter.RenderMarkdown(formatter.GuitarMarkdown(guitar, history, r.currency(), "#")))
	default:
		return r.writePlain("%s", formatter.FormatGuitarDetail(guitar, history, r.currency()))
	}
}

// GuitarAdd creates a guitar from flags.
func (r *Runner) GuitarAdd(ctx context.Context, cmd *cli.Command) error {
	guitars, _, err := r.repos()
	if err != nil {
		return err
	}

	input, err := guitarInputFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := input.Validate(); err != nil {
		return err
	}

	id, err := guitars.Create(ctx, input)
	if err != nil {
		return err
	}

	r.logger.Info("guitar created", "id", id)
	return r.writePlain("%s\n", formatter.Success(fmt.Sprintf("Added %s %s (id %d)", input.Brand, input.Model, id)))
}

// GuitarEdit updates only the fields given on the command line.
func (r *Runner) GuitarEdit(ctx context.Context, cmd *cli.Command) error {
	guitars, _, err := r.repos()
	if err != nil {
		return err
	}

	id, err := models.ParseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	patch, err := guitarPatchFromFlags(cmd)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return fmt.Errorf("%w: nothing to update, pass at least one field flag or --clear", shared.ErrInvalidInput)
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	n, err := guitars.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrGuitarNotFound, id)
	}

	r.logger.Info("guitar updated", "id", id)
	return r.writePlain("%s\n", formatter.Success(fmt.Sprintf("Updated guitar %d", id)))
}

// GuitarRemove deletes a guitar and its service records after confirmation.
func (r *Runner) GuitarRemove(ctx context.Context, cmd *cli.Command) error {
	guitars, records, err := r.repos()
	if err != nil {
		return err
	}

	id, err := models.ParseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	guitar, err := guitars.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		history, err := records.GetByGuitarID(ctx, id)
		if err != nil {
			return err
		}
		n := len(history)
		ok, err := r.confirm(fmt.Sprintf("Delete %s and its %d %s?",
			guitar.DisplayName(), n, shared.Pluralize(n, "service record", "service records")))
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Cancelled.\n")
		}
	}

	if err := guitars.Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("guitar deleted", "id", id)
	return r.writePlain("%s\n", formatter.Success(fmt.Sprintf("Deleted %s", guitar.DisplayName())))
}

// guitarInputFromFlags coerces the field flags of guitar add. Every coercion failure is reported.
func guitarInputFromFlags(cmd *cli.Command) (models.GuitarInput, error) {
	year, yearErr := models.OptionalInt("year", cmd.String("year"))
	paid, paidErr := models.OptionalFloat("purchase price", cmd.String("purchase-price"))
	value, valueErr := models.OptionalFloat("current value", cmd.String("current-value"))
	if err := errors.Join(yearErr, paidErr, valueErr); err != nil {
		return models.GuitarInput{}, err
	}

	return models.GuitarInput{
		Brand:         strings.TrimSpace(cmd.String("brand")),
		Model:         strings.TrimSpace(cmd.String("model")),
		Type:          normalizeGuitarType(cmd.String("type")),
		Year:          year,
		SerialNumber:  models.OptionalString(cmd.String("serial")),
		PurchaseDate:  models.OptionalString(cmd.String("purchase-date")),
		PurchasePrice: paid,
		CurrentValue:  value,
		Color:         models.OptionalString(cmd.String("color")),
		Notes:         models.OptionalString(cmd.String("notes")),
		Photos:        cmd.StringSlice("photo"),
	}, nil
}

// guitarPatchFromFlags turns explicitly set flags into patch fields. A blank optional value clears the field,
// as does naming it in --clear.
func guitarPatchFromFlags(cmd *cli.Command) (models.GuitarPatch, error) {
	var patch models.GuitarPatch
	var errs []error

	if cmd.IsSet("brand") {
		patch.Brand = models.Set(strings.TrimSpace(cmd.String("brand")))
	}
	if cmd.IsSet("model") {
		patch.Model = models.Set(strings.TrimSpace(cmd.String("model")))
	}
	if cmd.IsSet("type") {
		patch.Type = models.Set(normalizeGuitarType(cmd.String("type")))
	}
	if cmd.IsSet("year") {
		year, err := models.OptionalInt("year", cmd.String("year"))
		errs = append(errs, err)
		patch.Year = models.SetPtr(year)
	}
	if cmd.IsSet("serial") {
		patch.SerialNumber = models.SetPtr(models.OptionalString(cmd.String("serial")))
	}
	if cmd.IsSet("purchase-date") {
		patch.PurchaseDate = models.SetPtr(models.OptionalString(cmd.String("purchase-date")))
	}
	if cmd.IsSet("purchase-price") {
		paid, err := models.OptionalFloat("purchase price", cmd.String("purchase-price"))
		errs = append(errs, err)
		patch.PurchasePrice = models.SetPtr(paid)
	}
	if cmd.IsSet("current-value") {
		value, err := models.OptionalFloat("current value", cmd.String("current-value"))
		errs = append(errs, err)
		patch.CurrentValue = models.SetPtr(value)
	}
	if cmd.IsSet("color") {
		patch.Color = models.SetPtr(models.OptionalString(cmd.String("color")))
	}
	if cmd.IsSet("notes") {
		patch.Notes = models.SetPtr(models.OptionalString(cmd.String("notes")))
	}
	if cmd.IsSet("photo") {
		patch.Photos = models.Set(cmd.StringSlice("photo"))
	}

	for _, name := range cmd.StringSlice("clear") {
		errs = append(errs, clearGuitarField(&patch, name))
	}

	return patch, errors.Join(errs...)
}

func clearGuitarField(patch *models.GuitarPatch, name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "brand":
		patch.Brand = models.Clear[string]()
	case "model":
		patch.Model = models.Clear[string]()
	case "type":
		patch.Type = models.Clear[models.GuitarType]()
	case "year":
		patch.Year = models.Clear[int]()
	case "serial", "serial-number":
		patch.SerialNumber = models.Clear[string]()
	case "purchase-date":
		patch.PurchaseDate = models.Clear[string]()
	case "purchase-price":
		patch.PurchasePrice = models.Clear[float64]()
	case "current-value":
		patch.CurrentValue = models.Clear[float64]()
	case "color":
		patch.Color = models.Clear[string]()
	case "notes":
		patch.Notes = models.Clear[string]()
	case "photos", "photo":
		patch.Photos = models.Clear[[]string]()
	default:
		return fmt.Errorf("%w: cannot clear unknown field %q", shared.ErrInvalidInput, name)
	}
	return nil
}

// normalizeGuitarType lower-cases user input; validation reports unknown types.
func normalizeGuitarType(s string) models.GuitarType {
	return models.GuitarType(strings.ToLower(strings.TrimSpace(s)))
}
