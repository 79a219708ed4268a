// package formatter exports the guitar collection to various formats (JSON, YAML, CSV, Markdown, plain text)
// and renders guitars and service records for the terminal
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format names an export encoding.
type Format string

const (
	JSON     Format = "json"
	YAML     Format = "yaml"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// Formats lists every supported [Format].
var Formats = []Format{JSON, YAML, CSV, Markdown, Text}

// ParseFormat resolves a format name; "yml", "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension used for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case YAML:
		return "yaml"
	case Markdown:
		return "md"
	case Text:
		return "txt"
	default:
		return string(f)
	}
}

// Export encodes snapshot in the given format.
//
// currency is the symbol used by the human-readable formats.
func Export(snapshot *Snapshot, format Format, currency string) ([]byte, error) {
	switch format {
	case JSON:
		return ExportToJSON(snapshot)
	case YAML:
		return ExportToYAML(snapshot)
	case CSV:
		return ExportToCSV(snapshot)
	case Markdown:
		return ExportToMarkdown(snapshot, currency)
	case Text:
		return ExportToText(snapshot, currency)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, format)
	}
}

// ExportToJSON encodes the snapshot as indented JSON
func ExportToJSON(snapshot *Snapshot) ([]byte, error) {
	data, err := shared.MarshalJSON(snapshot, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML encodes the snapshot as YAML
func ExportToYAML(snapshot *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(snapshot); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

var guitarCSVHeaders = []string{
	"ID", "Brand", "Model", "Type", "Year", "Serial Number", "Purchase Date", "Purchase Price",
	"Current Value", "Color", "Notes", "Service Records", "Created At", "Updated At",
}

// ExportToCSV converts the snapshot's guitars to CSV, one row per guitar
func ExportToCSV(snapshot *Snapshot) ([]byte, error) {
	rows := make([][]string, 0, len(snapshot.Guitars))
	for _, entry := range snapshot.Guitars {
		g := entry.Guitar
		rows = append(rows, []string{
			strconv.FormatInt(g.ID, 10),
			g.Brand,
			g.Model,
			string(g.Type),
			intString(g.Year),
			deref(g.SerialNumber),
			deref(g.PurchaseDate),
			floatString(g.PurchasePrice),
			floatString(g.CurrentValue),
			deref(g.Color),
			deref(g.Notes),
			strconv.Itoa(len(entry.ServiceRecords)),
			g.CreatedAt,
			g.UpdatedAt,
		})
	}
	return writeCSV(guitarCSVHeaders, rows)
}

var serviceRecordCSVHeaders = []string{
	"ID", "Guitar ID", "Date", "Type", "Description", "Cost", "Notes", "Created At", "Updated At",
}

// ServiceRecordsToCSV converts every service record in the snapshot to CSV, one row per record
func ServiceRecordsToCSV(snapshot *Snapshot) ([]byte, error) {
	var rows [][]string
	for _, entry := range snapshot.Guitars {
		for _, r := range entry.ServiceRecords {
			rows = append(rows, []string{
				strconv.FormatInt(r.ID, 10),
				strconv.FormatInt(r.GuitarID, 10),
				r.Date,
				string(r.Type),
				r.Description,
				floatString(r.Cost),
				deref(r.Notes),
				r.CreatedAt,
				r.UpdatedAt,
			})
		}
	}
	return writeCSV(serviceRecordCSVHeaders, rows)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the collection as a Markdown document with one section per guitar
func ExportToMarkdown(snapshot *Snapshot, currency string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Guitar Collection\n\n")
	buf.WriteString(fmt.Sprintf("**Guitars**: %d\n", len(snapshot.Guitars)))
	buf.WriteString(fmt.Sprintf("**Total Value**: %s\n", shared.FormatCurrency(currency, snapshot.TotalValue())))
	if snapshot.ExportedAt != "" {
		buf.WriteString(fmt.Sprintf("**Exported**: %s\n", shared.FormatDate(snapshot.ExportedAt)))
	}

	for _, entry := range snapshot.Guitars {
		buf.WriteString("\n")
		buf.Write(GuitarMarkdown(&entry.Guitar, entry.ServiceRecords, currency, "##"))
	}

	return buf.Bytes(), nil
}

// GuitarMarkdown renders one guitar and its service history. heading is the Markdown prefix of the title, e.g. "#".
func GuitarMarkdown(g *models.Guitar, records []*models.ServiceRecord, currency, heading string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s %s\n\n", heading, g.DisplayName()))
	buf.WriteString(fmt.Sprintf("- **Type**: %s\n", g.Type.Label()))
	if g.SerialNumber != nil {
		buf.WriteString(fmt.Sprintf("- **Serial Number**: `%s`\n", *g.SerialNumber))
	}
	if g.Color != nil {
		buf.WriteString(fmt.Sprintf("- **Color**: %s\n", *g.Color))
	}
	buf.WriteString(fmt.Sprintf("- **Purchase Price**: %s\n", shared.FormatCurrency(currency, g.PurchasePrice)))
	buf.WriteString(fmt.Sprintf("- **Current Value**: %s\n", shared.FormatCurrency(currency, g.CurrentValue)))
	if g.PurchaseDate != nil {
		buf.WriteString(fmt.Sprintf("- **Purchase Date**: %s\n", shared.FormatDate(*g.PurchaseDate)))
	}

	if g.Notes != nil {
		buf.WriteString(fmt.Sprintf("\n%s# Notes\n\n%s\n", heading, *g.Notes))
	}

	buf.WriteString(fmt.Sprintf("\n%s# Service History\n\n", heading))
	if len(records) == 0 {
		buf.WriteString("No service records.\n")
		return buf.Bytes()
	}

	buf.WriteString("| Date | Type | Description | Cost |\n")
	buf.WriteString("|------|------|-------------|------|\n")
	for _, r := range records {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			shared.FormatDate(r.Date),
			r.Type.Label(),
			escapeCell(r.Description),
			shared.FormatCurrency(currency, r.Cost),
		))
	}

	return buf.Bytes()
}

// ExportToText converts the collection to plain text
func ExportToText(snapshot *Snapshot, currency string) ([]byte, error) {
	var buf bytes.Buffer

	n := len(snapshot.Guitars)
	buf.WriteString(fmt.Sprintf("%d %s in your collection\n\n", n, shared.Pluralize(n, "guitar", "guitars")))

	for i, entry := range snapshot.Guitars {
		g := entry.Guitar
		buf.WriteString(fmt.Sprintf("%d. %s (%s) - %s\n", i+1, g.DisplayName(), g.Type.Label(),
			shared.FormatCurrency(currency, g.CurrentValue)))
		for _, r := range entry.ServiceRecords {
			buf.WriteString(fmt.Sprintf("   %s  %s: %s\n", r.Date, r.Type.Label(), r.Description))
		}
	}

	return buf.Bytes(), nil
}

// WriteExport encodes snapshot and writes it to path.
//
// Defaults to fretlog_export.{ext} as the filename. CSV exports also write {base}_service_records.csv
// next to the guitars file. Returns the paths written.
func WriteExport(snapshot *Snapshot, format Format, path, currency string) ([]string, error) {
	if path == "" {
		path = "fretlog_export." + format.Extension()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := Export(snapshot, format, currency)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}
	written := []string{path}

	if format == CSV {
		recordsData, err := ServiceRecordsToCSV(snapshot)
		if err != nil {
			return nil, err
		}

		recordsFile := strings.TrimSuffix(path, filepath.Ext(path)) + "_service_records.csv"
		if err := os.WriteFile(recordsFile, recordsData, 0644); err != nil {
			return nil, fmt.Errorf("failed to write service records file: %w", err)
		}
		written = append(written, recordsFile)
	}

	return written, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intString(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func floatString(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
