package formatter

import (
	"context"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/repositories"
	"github.com/desertthunder/fretlog/internal/shared"
	th "github.com/desertthunder/fretlog/internal/testing"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func testSnapshot() *Snapshot {
	return &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: "2024-03-01T10:00:00.000000000Z",
		Guitars: []GuitarEntry{
			{
				Guitar: models.Guitar{
					ID:            1,
					Brand:         "Fender",
					Model:         "Stratocaster",
					Type:          models.Electric,
					Year:          th.Ptr(1965),
					SerialNumber:  th.Ptr("L12345"),
					PurchasePrice: th.Ptr(12500.0),
					CurrentValue:  th.Ptr(18000.0),
					Color:         th.Ptr("Sunburst"),
					Notes:         th.Ptr("Original pickups"),
					CreatedAt:     "2024-01-01T00:00:00.000000000Z",
					UpdatedAt:     "2024-02-01T00:00:00.000000000Z",
				},
				ServiceRecords: []*models.ServiceRecord{
					{
						ID:          3,
						GuitarID:    1,
						Date:        "2024-01-01",
						Type:        models.Setup,
						Description: "Fret polish",
						Cost:        th.Ptr(85.0),
					},
				},
			},
			{
				Guitar: models.Guitar{
					ID:           2,
					Brand:        "Martin",
					Model:        "D-28",
					Type:         models.Acoustic,
					CurrentValue: th.Ptr(3200.5),
				},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", JSON},
		{"YAML", YAML},
		{"yml", YAML},
		{"csv", CSV},
		{"md", Markdown},
		{"markdown", Markdown},
		{" txt ", Text},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("Extension", func(t *testing.T) {
		if Markdown.Extension() != "md" || YAML.Extension() != "yaml" || JSON.Extension() != "json" {
			t.Error("unexpected extensions")
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testSnapshot())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header and 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != strings.Join(guitarCSVHeaders, ",") {
			t.Errorf("unexpected headers %v", records[0])
		}

		strat := records[1]
		if strat[1] != "Fender" || strat[4] != "1965" || strat[7] != "12500.00" || strat[11] != "1" {
			t.Errorf("unexpected row %v", strat)
		}
		martin := records[2]
		if martin[4] != "" || martin[5] != "" || martin[11] != "0" {
			t.Errorf("expected empty optional cells, got %v", martin)
		}
	})

	t.Run("ServiceRecordsToCSV", func(t *testing.T) {
		data, err := ServiceRecordsToCSV(testSnapshot())
		if err != nil {
			t.Fatalf("ServiceRecordsToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Guitar ID,Date,Type,Description,Cost,Notes") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "3,1,2024-01-01,setup,Fret polish,85.00") {
			t.Errorf("CSV missing record, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testSnapshot(), "$")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Guitar Collection",
			"**Guitars**: 2",
			"**Total Value**: $21,200.50",
			"## 1965 Fender Stratocaster",
			"- **Type**: Electric",
			"- **Serial Number**: `L12345`",
			"- **Purchase Price**: $12,500.00",
			"### Notes\n\nOriginal pickups",
			"| Jan 1, 2024 | Setup | Fret polish | $85.00 |",
			"## Martin D-28",
			"No service records.",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q\n%s", want, output)
			}
		}

		if strings.Contains(output, "## Martin D-28\n\n- **Serial Number**") {
			t.Error("Markdown should omit absent serial number")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testSnapshot(), "$")
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "2 guitars in your collection") {
			t.Errorf("Text missing header, got: %s", output)
		}
		if !strings.Contains(output, "1. 1965 Fender Stratocaster (Electric) - $18,000.00") {
			t.Errorf("Text missing guitar line, got: %s", output)
		}
		if !strings.Contains(output, "   2024-01-01  Setup: Fret polish") {
			t.Errorf("Text missing service line, got: %s", output)
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(testSnapshot())
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"version: 1", "brand: Fender", "serial_number: L12345", "service_records:", "description: Fret polish"} {
			if !strings.Contains(output, want) {
				t.Errorf("YAML missing %q\n%s", want, output)
			}
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testSnapshot())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{`"brand": "Fender"`, `"serialNumber": "L12345"`, `"serviceRecords": [`} {
			if !strings.Contains(output, want) {
				t.Errorf("JSON missing %q\n%s", want, output)
			}
		}
		if strings.Contains(output, `"Guitar"`) {
			t.Error("guitar fields should be flattened into the entry")
		}
	})

	t.Run("ExportUnsupported", func(t *testing.T) {
		if _, err := Export(testSnapshot(), Format("xml"), "$"); !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestDecodeSnapshot(t *testing.T) {
	for _, format := range []Format{JSON, YAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Export(testSnapshot(), format, "$")
			if err != nil {
				t.Fatalf("export failed: %v", err)
			}

			got, err := DecodeSnapshot(data, format)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}

			if len(got.Guitars) != 2 {
				t.Fatalf("expected 2 guitars, got %d", len(got.Guitars))
			}
			strat := got.Guitars[0]
			if strat.Brand != "Fender" || strat.Year == nil || *strat.Year != 1965 {
				t.Errorf("unexpected guitar %+v", strat.Guitar)
			}
			if len(strat.ServiceRecords) != 1 || strat.ServiceRecords[0].Description != "Fret polish" {
				t.Errorf("unexpected service records %v", strat.ServiceRecords)
			}
		})
	}

	t.Run("InvalidJSON", func(t *testing.T) {
		if _, err := DecodeSnapshot([]byte("{"), JSON); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("NewerVersion", func(t *testing.T) {
		if _, err := DecodeSnapshot([]byte(`{"version": 99}`), JSON); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("CSVIsNotImportable", func(t *testing.T) {
		if _, err := DecodeSnapshot([]byte("ID\n"), CSV); !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("FormatFromPath", func(t *testing.T) {
		if f, err := FormatFromPath("backup/collection.yml"); err != nil || f != YAML {
			t.Errorf("expected YAML, got %q, %v", f, err)
		}
	})
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("RemapsGuitarIDs", func(t *testing.T) {
		db := th.MustOpenDB(t)
		guitars := repositories.NewGuitarRepository(db)
		records := repositories.NewServiceRecordRepository(db)

		// occupy id 1 so the imported ids differ from the snapshot's
		if _, err := guitars.Create(ctx, models.GuitarInput{Brand: "Gibson", Model: "SG", Type: models.Electric}); err != nil {
			t.Fatalf("failed to seed guitar: %v", err)
		}

		result, err := Import(ctx, testSnapshot(), guitars, records)
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if result.Guitars != 2 || result.ServiceRecords != 1 {
			t.Errorf("unexpected result %+v", result)
		}

		history, err := records.GetByGuitarID(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}
		if len(history) != 1 || history[0].Description != "Fret polish" {
			t.Errorf("expected record to move to guitar 2, got %v", history)
		}

		if n, _ := guitars.Count(ctx); n != 3 {
			t.Errorf("expected 3 guitars, got %d", n)
		}
	})

	t.Run("ValidatesBeforeWriting", func(t *testing.T) {
		db := th.MustOpenDB(t)
		guitars := repositories.NewGuitarRepository(db)
		records := repositories.NewServiceRecordRepository(db)

		snapshot := testSnapshot()
		snapshot.Guitars[1].Brand = ""
		snapshot.Guitars[0].ServiceRecords[0].Date = "yesterday"

		_, err := Import(ctx, snapshot, guitars, records)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if !strings.Contains(err.Error(), "brand is required") || !strings.Contains(err.Error(), "date") {
			t.Errorf("expected every violation to be reported, got %v", err)
		}

		if n, _ := guitars.Count(ctx); n != 0 {
			t.Errorf("expected nothing to be written, got %d guitars", n)
		}
	})

	t.Run("BuildSnapshotRoundTrip", func(t *testing.T) {
		db := th.MustOpenDB(t)
		guitars := repositories.NewGuitarRepository(db)
		records := repositories.NewServiceRecordRepository(db)

		if _, err := Import(ctx, testSnapshot(), guitars, records); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		snapshot, err := BuildSnapshot(ctx, guitars, records)
		if err != nil {
			t.Fatalf("failed to build snapshot: %v", err)
		}
		if len(snapshot.Guitars) != 2 || snapshot.ServiceRecordCount() != 1 {
			t.Errorf("unexpected snapshot %+v", snapshot)
		}
		if snapshot.Version != SnapshotVersion || snapshot.ExportedAt == "" {
			t.Errorf("missing snapshot metadata")
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("CSVWritesTwoFiles", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out", "collection.csv")

		written, err := WriteExport(testSnapshot(), CSV, path, "$")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		if len(written) != 2 {
			t.Fatalf("expected 2 files, got %v", written)
		}
		th.AssertFileExists(t, path)
		th.AssertFileExists(t, filepath.Join(dir, "out", "collection_service_records.csv"))
	})

	t.Run("DefaultFilename", func(t *testing.T) {
		wd := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		defer th.MustChdir(t, wd)

		written, err := WriteExport(testSnapshot(), Markdown, "", "$")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if len(written) != 1 || written[0] != "fretlog_export.md" {
			t.Errorf("unexpected files %v", written)
		}
		if !strings.Contains(th.MustReadFile(t, written[0]), "# Guitar Collection") {
			t.Error("unexpected file content")
		}
	})
}

func TestTerminalFormatting(t *testing.T) {
	snapshot := testSnapshot()
	strat := &snapshot.Guitars[0].Guitar

	t.Run("GuitarList", func(t *testing.T) {
		output := FormatGuitarList([]*models.Guitar{strat, &snapshot.Guitars[1].Guitar}, "$")
		if !strings.Contains(output, "2 guitars") {
			t.Errorf("missing count, got: %s", output)
		}
		if !strings.Contains(output, "1965 Fender Stratocaster Electric") {
			t.Errorf("missing guitar, got: %s", output)
		}
		if !strings.Contains(output, "Value: $18,000.00 · S/N: L12345 · Sunburst") {
			t.Errorf("missing details, got: %s", output)
		}
	})

	t.Run("EmptyGuitarList", func(t *testing.T) {
		output := FormatGuitarList(nil, "$")
		if !strings.Contains(output, "0 guitars") || !strings.Contains(output, "No guitars found.") {
			t.Errorf("unexpected output: %s", output)
		}
	})

	t.Run("GuitarDetail", func(t *testing.T) {
		output := FormatGuitarDetail(strat, snapshot.Guitars[0].ServiceRecords, "$")
		for _, want := range []string{
			"Serial Number:  L12345",
			"Current Value:  $18,000.00",
			"Original pickups",
			"Fret polish",
			"Added on Jan 1, 2024 · Last updated Feb 1, 2024",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("detail missing %q\n%s", want, output)
			}
		}
		if strings.Contains(output, "Purchase Date") {
			t.Error("absent purchase date should be omitted")
		}
	})

	t.Run("NoServiceRecords", func(t *testing.T) {
		if got := FormatServiceRecords(nil, "$"); !strings.Contains(got, "No service records.") {
			t.Errorf("unexpected output: %s", got)
		}
	})

	t.Run("Success", func(t *testing.T) {
		if got := Success("done"); got != "✓ done" {
			t.Errorf("Success() = %q", got)
		}
	})
}
