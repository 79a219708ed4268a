package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/repositories"
	"github.com/desertthunder/fretlog/internal/shared"
	tu "github.com/desertthunder/fretlog/internal/testing"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func init() {
	color.NoColor = true
}

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// setupRunner returns a runner backed by an in-memory store, writing to a buffer and reading answers from input.
func setupRunner(t *testing.T, input string) (*Runner, *bytes.Buffer) {
	t.Helper()
	db := tu.MustOpenDB(t)
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Logger:  shared.NewLogger(&bytes.Buffer{}),
		Output:  output,
		Input:   strings.NewReader(input),
		Guitars: repositories.NewGuitarRepository(db).WithClock(tu.StepClock(epoch, time.Second)),
		Records: repositories.NewServiceRecordRepository(db).WithClock(tu.StepClock(epoch, time.Second)),
	})
	return runner, output
}

func run(r *Runner, args ...string) error {
	app := &cli.Command{Name: "fretlog", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"fretlog"}, args...))
}

func mustRun(t *testing.T, r *Runner, args ...string) {
	t.Helper()
	if err := run(r, args...); err != nil {
		t.Fatalf("fretlog %s: %v", strings.Join(args, " "), err)
	}
}

func addStrat(t *testing.T, r *Runner) {
	t.Helper()
	mustRun(t, r, "guitar", "add",
		"--brand", "Fender", "--model", "Stratocaster", "--type", "Electric", "--year", "1965",
		"--serial", "L12345", "--current-value", "$18000", "--notes", "Original pickups")
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})

		t.Run("opens the configured store lazily", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = shared.MemoryPath
			runner := NewRunner(RunnerOpts{Config: config})
			if runner.db != nil {
				t.Fatal("expected no store before first use")
			}

			guitars, records, err := runner.repos()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if guitars == nil || records == nil {
				t.Fatal("expected repositories")
			}
			if err := runner.Close(); err != nil {
				t.Errorf("failed to close: %v", err)
			}
			if err := runner.Close(); err != nil {
				t.Errorf("expected second close to be a no-op, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("confirm", func(t *testing.T) {
		tests := []struct {
			input string
			want  bool
		}{
			{"y\n", true},
			{"YES\n", true},
			{"n\n", false},
			{"\n", false},
			{"", false},
		}
		for _, tt := range tests {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Input: strings.NewReader(tt.input)})
			got, err := runner.confirm("Sure?")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		}
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "guitar", "service", "export", "import", "serve", "tui", "mcp"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestGuitarCommands(t *testing.T) {
	t.Run("AddListShow", func(t *testing.T) {
		r, out := setupRunner(t, "")
		addStrat(t, r)
		if !strings.Contains(out.String(), "Added Fender Stratocaster (id 1)") {
			t.Errorf("unexpected output: %q", out.String())
		}

		out.Reset()
		mustRun(t, r, "guitar", "list")
		for _, want := range []string{"1 guitar", "1965 Fender Stratocaster", "$18,000.00", "S/N: L12345"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("expected list to contain %q, got:\n%s", want, out.String())
			}
		}

		out.Reset()
		mustRun(t, r, "guitar", "show", "--json", "1")
		var detail struct {
			models.Guitar
			ServiceRecords []models.ServiceRecord `json:"serviceRecords"`
		}
		if err := json.Unmarshal(out.Bytes(), &detail); err != nil {
			t.Fatalf("failed to decode show output: %v", err)
		}
		if detail.Type != models.Electric || detail.Year == nil || *detail.Year != 1965 {
			t.Errorf("unexpected guitar %+v", detail.Guitar)
		}
		if detail.CreatedAt != detail.UpdatedAt {
			t.Errorf("expected createdAt == updatedAt on a new guitar")
		}
	})

	t.Run("AddRejectsInvalidInput", func(t *testing.T) {
		r, _ := setupRunner(t, "")
		err := run(r, "guitar", "add", "--model", "Jazzmaster", "--type", "lute", "--year", "old")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
		if !strings.Contains(err.Error(), "year must be a whole number") {
			t.Errorf("expected coercion error, got %v", err)
		}

		err = run(r, "guitar", "add", "--model", "Jazzmaster", "--type", "lute")
		for _, want := range []string{"brand is required", `unknown guitar type "lute"`} {
			if err == nil || !strings.Contains(err.Error(), want) {
				t.Errorf("expected %q in %v", want, err)
			}
		}
	})

	t.Run("ShowUnknown", func(t *testing.T) {
		r, _ := setupRunner(t, "")
		if err := run(r, "guitar", "show", "99"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
		if err := run(r, "guitar", "show", "abc"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid id, got %v", err)
		}
	})

	t.Run("EditChangesOnlyGivenFields", func(t *testing.T) {
		r, _ := setupRunner(t, "")
		addStrat(t, r)
		mustRun(t, r, "guitar", "edit", "--color", "Sunburst", "--clear", "notes", "1")

		g, err := r.guitars.GetByID(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.Color == nil || *g.Color != "Sunburst" {
			t.Errorf("expected color to be set, got %v", g.Color)
		}
		if g.Notes != nil {
			t.Errorf("expected notes to be cleared, got %q", *g.Notes)
		}
		if g.SerialNumber == nil || *g.SerialNumber != "L12345" {
			t.Error("expected serial number to be untouched")
		}
		if g.UpdatedAt <= g.CreatedAt {
			t.Errorf("expected updatedAt %s > createdAt %s", g.UpdatedAt, g.CreatedAt)
		}
	})

	t.Run("EditErrors", func(t *testing.T) {
		r, _ := setupRunner(t, "")
		addStrat(t, r)

		tests := []struct {
			name string
			args []string
			want error
		}{
			{"NoFields", []string{"guitar", "edit", "1"}, shared.ErrInvalidInput},
			{"ClearRequired", []string{"guitar", "edit", "--clear", "brand", "1"}, shared.ErrInvalidInput},
			{"ClearUnknown", []string{"guitar", "edit", "--clear", "strings", "1"}, shared.ErrInvalidInput},
			{"UnknownID", []string{"guitar", "edit", "--color", "Red", "7"}, shared.ErrNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := run(r, tt.args...); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("Search", func(t *testing.T) {
		r, out := setupRunner(t, "")
		addStrat(t, r)
		mustRun(t, r, "guitar", "add", "--brand", "Martin", "--model", "D-28", "--type", "acoustic")

		out.Reset()
		mustRun(t, r, "guitar", "search", "--json", "PICKUPS")
		var found []models.Guitar
		if err := json.Unmarshal(out.Bytes(), &found); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(found) != 1 || found[0].Model != "Stratocaster" {
			t.Errorf("expected notes match, got %+v", found)
		}

		out.Reset()
		mustRun(t, r, "guitar", "search", "--json", "gibson")
		if strings.TrimSpace(out.String()) != "[]" {
			t.Errorf("expected an empty list, got %q", out.String())
		}
	})

	t.Run("ListByType", func(t *testing.T) {
		r, out := setupRunner(t, "")
		addStrat(t, r)
		mustRun(t, r, "guitar", "add", "--brand", "Martin", "--model", "D-28", "--type", "acoustic")

		out.Reset()
		mustRun(t, r, "guitar", "list", "--type", "acoustic")
		if !strings.Contains(out.String(), "Martin D-28") || strings.Contains(out.String(), "Stratocaster") {
			t.Errorf("unexpected output:\n%s", out.String())
		}

		if err := run(r, "guitar", "list", "--type", "ukulele"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid type, got %v", err)
		}
	})

	t.Run("RemoveCascades", func(t *testing.T) {
		r, out := setupRunner(t, "y\n")
		addStrat(t, r)
		mustRun(t, r, "service", "add", "--date", "2024-01-01", "--type", "setup", "--description", "Fret polish", "1")

		out.Reset()
		mustRun(t, r, "guitar", "rm", "1")
		if !strings.Contains(out.String(), "Delete 1965 Fender Stratocaster and its 1 service record?") {
			t.Errorf("expected confirmation prompt, got %q", out.String())
		}

		ctx := context.Background()
		if n, _ := r.guitars.Count(ctx); n != 0 {
			t.Errorf("expected no guitars, got %d", n)
		}
		if all, _ := r.records.GetAll(ctx); len(all) != 0 {
			t.Errorf("expected no service records, got %d", len(all))
		}
	})

	t.Run("RemoveCancelled", func(t *testing.T) {
		r, out := setupRunner(t, "n\n")
		addStrat(t, r)

		mustRun(t, r, "guitar", "rm", "1")
		if !strings.Contains(out.String(), "Cancelled.") {
			t.Errorf("expected cancellation, got %q", out.String())
		}
		if n, _ := r.guitars.Count(context.Background()); n != 1 {
			t.Errorf("expected guitar to remain, got %d", n)
		}
	})

	t.Run("RemoveCancelledWriteFailure", func(t *testing.T) {
		r, _ := setupRunner(t, "n\n")
		addStrat(t, r)

		limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
		r.output = &limitedWriter

		err := run(r, "guitar", "rm", "1")
		if err == nil || !strings.Contains(err.Error(), "failed to write output") {
			t.Errorf("expected write error, got %v", err)
		}
	})

	t.Run("RemoveWithYes", func(t *testing.T) {
		r, _ := setupRunner(t, "")
		addStrat(t, r)
		mustRun(t, r, "guitar", "rm", "--yes", "1")
		if n, _ := r.guitars.Count(context.Background()); n != 0 {
			t.Errorf("expected guitar to be deleted, got %d", n)
		}
	})
}

func TestServiceCommands(t *testing.T) {
	t.Run("Lifecycle", func(t *testing.T) {
		r, out := setupRunner(t, "")
		addStrat(t, r)
		mustRun(t, r, "service", "add", "--date", "2024-01-01", "--type", "setup", "--description", "Fret polish", "--cost", "85", "1")
		mustRun(t, r, "service", "add", "--date", "2024-06-01", "--type", "string-change", "--description", "9-42", "1")

		out.Reset()
		mustRun(t, r, "service", "list", "--guitar", "1", "--json")
		var list []models.ServiceRecord
		if err := json.Unmarshal(out.Bytes(), &list); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(list) != 2 || list[0].Date != "2024-06-01" {
			t.Fatalf("expected newest first, got %+v", list)
		}

		mustRun(t, r, "service", "edit", "--clear", "cost", "--notes", "Done at the shop", "1")
		rec, err := r.records.GetByID(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Cost != nil {
			t.Errorf("expected cost to be cleared, got %v", *rec.Cost)
		}
		if rec.Notes == nil || *rec.Notes != "Done at the shop" {
			t.Errorf("expected notes to be set, got %v", rec.Notes)
		}

		mustRun(t, r, "service", "rm", "2")
		if err := run(r, "service", "rm", "2"); !errors.Is(err, shared.ErrServiceRecordNotFound) {
			t.Errorf("expected not found on second delete, got %v", err)
		}
	})

	t.Run("AddRequiresExistingGuitar", func(t *testing.T) {
		r, _ := setupRunner(t, "")
		err := run(r, "service", "add", "--date", "2024-01-01", "--type", "repair", "--description", "Jack", "3")
		if !errors.Is(err, shared.ErrGuitarNotFound) {
			t.Errorf("expected guitar not found, got %v", err)
		}
	})

	t.Run("AddValidates", func(t *testing.T) {
		r, _ := setupRunner(t, "")
		addStrat(t, r)
		err := run(r, "service", "add", "--date", "01/02/2024", "--type", "setup", "1")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
		if !strings.Contains(err.Error(), "description is required") {
			t.Errorf("expected description error, got %v", err)
		}
	})

	t.Run("ClearRequiredField", func(t *testing.T) {
		r, _ := setupRunner(t, "")
		addStrat(t, r)
		mustRun(t, r, "service", "add", "--date", "2024-01-01", "--type", "setup", "--description", "Setup", "1")
		if err := run(r, "service", "edit", "--clear", "date", "1"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
	})
}

func TestExportImport(t *testing.T) {
	t.Run("RoundTripThroughFile", func(t *testing.T) {
		src, _ := setupRunner(t, "")
		addStrat(t, src)
		mustRun(t, src, "guitar", "add", "--brand", "Martin", "--model", "D-28", "--type", "acoustic")
		mustRun(t, src, "service", "add", "--date", "2024-01-01", "--type", "setup", "--description", "Fret polish", "1")

		path := filepath.Join(t.TempDir(), "collection.yaml")
		mustRun(t, src, "export", "--format", "yaml", "--output", path)
		tu.AssertFileExists(t, path)

		dst, out := setupRunner(t, "")
		mustRun(t, dst, "import", "--yes", path)
		if !strings.Contains(out.String(), "Imported 2 guitars and 1 service records") {
			t.Errorf("unexpected output: %q", out.String())
		}

		ctx := context.Background()
		all, _ := dst.guitars.GetAll(ctx)
		if len(all) != 2 {
			t.Fatalf("expected 2 guitars, got %d", len(all))
		}
		var stratID int64
		for _, g := range all {
			if g.Model == "Stratocaster" {
				stratID = g.ID
			}
		}
		history, _ := dst.records.GetByGuitarID(ctx, stratID)
		if len(history) != 1 || history[0].Description != "Fret polish" {
			t.Errorf("expected service record to follow its guitar, got %+v", history)
		}
	})

	t.Run("ExportToStdout", func(t *testing.T) {
		r, out := setupRunner(t, "")
		addStrat(t, r)

		out.Reset()
		mustRun(t, r, "export", "--format", "markdown", "--output", "-")
		if !strings.HasPrefix(out.String(), "# Guitar Collection") {
			t.Errorf("unexpected markdown:\n%s", out.String())
		}
	})

	t.Run("ImportCancelled", func(t *testing.T) {
		r, out := setupRunner(t, "n\n")
		path := filepath.Join(t.TempDir(), "collection.json")
		tu.MustWriteFile(t, path, `{"version": 1, "guitars": [{"brand": "Martin", "model": "D-28", "type": "acoustic"}]}`)

		mustRun(t, r, "import", path)
		if !strings.Contains(out.String(), "Cancelled.") {
			t.Errorf("expected cancellation, got %q", out.String())
		}
		if n, _ := r.guitars.Count(context.Background()); n != 0 {
			t.Errorf("expected nothing imported, got %d", n)
		}

		r, _ = setupRunner(t, "n\n")
		limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
		r.output = &limitedWriter
		if err := run(r, "import", path); err == nil || !strings.Contains(err.Error(), "failed to write output") {
			t.Errorf("expected write error, got %v", err)
		}
	})

	t.Run("ImportRejectsInvalidSnapshot", func(t *testing.T) {
		r, _ := setupRunner(t, "")
		path := filepath.Join(t.TempDir(), "bad.json")
		tu.MustWriteFile(t, path, `{"version": 1, "guitars": [{"brand": "", "model": "X", "type": "electric"}]}`)

		if err := run(r, "import", "--yes", path); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
		if n, _ := r.guitars.Count(context.Background()); n != 0 {
			t.Errorf("expected nothing imported, got %d", n)
		}
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		r, _ := setupRunner(t, "")
		if err := run(r, "export", "--format", "xml"); !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("expected unsupported format, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	wd := tu.MustGetwd(t)
	tu.MustChdir(t, dir)
	t.Cleanup(func() { tu.MustChdir(t, wd) })

	output := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{
		ConfigPath: filepath.Join(dir, "config.toml"),
		Logger:     shared.NewLogger(&bytes.Buffer{}),
		Output:     output,
	})

	if err := run(r, "setup"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
	tu.AssertFileExists(t, filepath.Join(dir, "fretlog.db"))
	if !strings.Contains(output.String(), "Database ready at ./fretlog.db (schema v2)") {
		t.Errorf("unexpected output: %q", output.String())
	}

	if err := run(r, "setup"); err != nil {
		t.Errorf("expected setup to be idempotent, got %v", err)
	}

	output.Reset()
	if err := run(r, "setup", "--rollback"); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}
	if !strings.Contains(output.String(), "Rolled back to schema v1") {
		t.Errorf("unexpected output: %q", output.String())
	}
}
