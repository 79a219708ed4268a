package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/fretlog/internal/formatter"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export writes a snapshot of every guitar with its service records.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	guitars, records, err := r.repos()
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	snapshot, err := formatter.BuildSnapshot(ctx, guitars, records)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "-" {
		data, err := formatter.Export(snapshot, format, r.currency())
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	written, err := formatter.WriteExport(snapshot, format, output, r.currency())
	if err != nil {
		return err
	}

	r.logger.Info("collection exported", "format", format, "guitars", len(snapshot.Guitars),
		"service_records", snapshot.ServiceRecordCount())
	n := len(snapshot.Guitars)
	return r.writePlain("%s\n", formatter.Success(fmt.Sprintf("Exported %d %s to %s",
		n, shared.Pluralize(n, "guitar", "guitars"), strings.Join(written, ", "))))
}

// Import loads a JSON or YAML snapshot and adds everything in it to the collection.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	guitars, records, err := r.repos()
	if err != nil {
		return err
	}

	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}

	var format formatter.Format
	if f := cmd.String("format"); f != "" {
		format, err = formatter.ParseFormat(f)
	} else {
		format, err = formatter.FormatFromPath(path)
	}
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	snapshot, err := formatter.DecodeSnapshot(data, format)
	if err != nil {
		return err
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	n := len(snapshot.Guitars)
	if !cmd.Bool("yes") {
		ok, err := r.confirm(fmt.Sprintf("Import %d %s and %d service records?",
			n, shared.Pluralize(n, "guitar", "guitars"), snapshot.ServiceRecordCount()))
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Cancelled.\n")
		}
	}

	result, err := formatter.Import(ctx, snapshot, guitars, records)
	if err != nil {
		if result != nil {
			r.logger.Error("import stopped part-way", "guitars", result.Guitars, "service_records", result.ServiceRecords)
		}
		return err
	}

	r.logger.Info("collection imported", "path", path, "guitars", result.Guitars, "service_records", result.ServiceRecords)
	return r.writePlain("%s\n", formatter.Success(fmt.Sprintf("Imported %d %s and %d service records",
		result.Guitars, shared.Pluralize(result.Guitars, "guitar", "guitars"), result.ServiceRecords)))
}
