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

// ServiceAdd logs a service record against an existing guitar.
func (r *Runner) ServiceAdd(ctx context.Context, cmd *cli.Command) error {
	guitars, records, err := r.repos()
	if err != nil {
		return err
	}

	guitarID, err := models.ParseID(cmd.StringArg("guitar-id"))
	if err != nil {
		return err
	}

	cost, err := models.OptionalFloat("cost", cmd.String("cost"))
	if err != nil {
		return err
	}

	input := models.ServiceRecordInput{
		GuitarID:    guitarID,
		Date:        strings.TrimSpace(cmd.String("date")),
		Type:        normalizeServiceType(cmd.String("type")),
		Description: strings.TrimSpace(cmd.String("description")),
		Cost:        cost,
		Notes:       models.OptionalString(cmd.String("notes")),
	}
	if err := input.Validate(); err != nil {
		return err
	}

	guitar, err := guitars.GetByID(ctx, guitarID)
	if err != nil {
		return err
	}

	id, err := records.Create(ctx, input)
	if err != nil {
		return err
	}

	r.logger.Info("service record created", "id", id, "guitar_id", guitarID)
	return r.writePlain("%s\n", formatter.Success(fmt.Sprintf("Logged %s for %s (id %d)",
		strings.ToLower(input.Type.Label()), guitar.DisplayName(), id)))
}

// ServiceList prints every service record, or one guitar's history with --guitar.
func (r *Runner) ServiceList(ctx context.Context, cmd *cli.Command) error {
	guitars, records, err := r.repos()
	if err != nil {
		return err
	}

	var list []*models.ServiceRecord
	if g := cmd.String("guitar"); g != "" {
		guitarID, err := models.ParseID(g)
		if err != nil {
			return err
		}
		if _, err := guitars.GetByID(ctx, guitarID); err != nil {
			return err
		}
		if list, err = records.GetByGuitarID(ctx, guitarID); err != nil {
			return err
		}
	} else if list, err = records.GetAll(ctx); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, true)
	}
	return r.writePlain("%s", formatter.FormatServiceRecords(list, r.currency()))
}

// ServiceEdit updates only the fields given on the command line.
func (r *Runner) ServiceEdit(ctx context.Context, cmd *cli.Command) error {
	guitars, records, err := r.repos()
	if err != nil {
		return err
	}

	id, err := models.ParseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	patch, err := servicePatchFromFlags(cmd)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return fmt.Errorf("%w: nothing to update, pass at least one field flag or --clear", shared.ErrInvalidInput)
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	if guitarID, ok := patch.GuitarID.Value(); ok {
		if _, err := guitars.GetByID(ctx, guitarID); err != nil {
			return err
		}
	}

	n, err := records.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrServiceRecordNotFound, id)
	}

	r.logger.Info("service record updated", "id", id)
	return r.writePlain("%s\n", formatter.Success(fmt.Sprintf("Updated service record %d", id)))
}

// ServiceRemove deletes a single service record.
func (r *Runner) ServiceRemove(ctx context.Context, cmd *cli.Command) error {
	_, records, err := r.repos()
	if err != nil {
		return err
	}

	id, err := models.ParseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if _, err := records.GetByID(ctx, id); err != nil {
		return err
	}
	if err := records.Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("service record deleted", "id", id)
	return r.writePlain("%s\n", formatter.Success(fmt.Sprintf("Deleted service record %d", id)))
}

func servicePatchFromFlags(cmd *cli.Command) (models.ServiceRecordPatch, error) {
	var patch models.ServiceRecordPatch
	var errs []error

	if cmd.IsSet("guitar") {
		guitarID, err := models.ParseID(cmd.String("guitar"))
		errs = append(errs, err)
		patch.GuitarID = models.Set(guitarID)
	}
	if cmd.IsSet("date") {
		patch.Date = models.Set(strings.TrimSpace(cmd.String("date")))
	}
	if cmd.IsSet("type") {
		patch.Type = models.Set(normalizeServiceType(cmd.String("type")))
	}
	if cmd.IsSet("description") {
		patch.Description = models.Set(strings.TrimSpace(cmd.String("description")))
	}
	if cmd.IsSet("cost") {
		cost, err := models.OptionalFloat("cost", cmd.String("cost"))
		errs = append(errs, err)
		patch.Cost = models.SetPtr(cost)
	}
	if cmd.IsSet("notes") {
		patch.Notes = models.SetPtr(models.OptionalString(cmd.String("notes")))
	}

	for _, name := range cmd.StringSlice("clear") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "cost":
			patch.Cost = models.Clear[float64]()
		case "notes":
			patch.Notes = models.Clear[string]()
		default:
			errs = append(errs, fmt.Errorf("%w: cannot clear %q, only cost and notes are optional", shared.ErrInvalidInput, name))
		}
	}

	return patch, errors.Join(errs...)
}

func normalizeServiceType(s string) models.ServiceType {
	return models.ServiceType(strings.ToLower(strings.TrimSpace(s)))
}
