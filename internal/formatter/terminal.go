package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/fatih/color"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
)

// FormatGuitarListItem renders one guitar as a two-line list entry
func FormatGuitarListItem(g *models.Guitar, currency string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s  %s %s\n", faint(fmt.Sprintf("%4d", g.ID)), bold(g.DisplayName()), cyan(g.Type.Label())))

	details := []string{"Value: " + shared.FormatCurrency(currency, g.CurrentValue)}
	if g.SerialNumber != nil {
		details = append(details, "S/N: "+*g.SerialNumber)
	}
	if g.Color != nil {
		details = append(details, *g.Color)
	}
	sb.WriteString(fmt.Sprintf("        %s\n", faint(strings.Join(details, " · "))))

	return sb.String()
}

// FormatGuitarList renders a header with the collection size followed by every guitar
func FormatGuitarList(guitars []*models.Guitar, currency string) string {
	var sb strings.Builder

	n := len(guitars)
	sb.WriteString(fmt.Sprintf("%s\n\n", faint(fmt.Sprintf("%d %s", n, shared.Pluralize(n, "guitar", "guitars")))))
	if n == 0 {
		sb.WriteString("  No guitars found.\n")
		return sb.String()
	}

	for _, g := range guitars {
		sb.WriteString(FormatGuitarListItem(g, currency))
	}
	return sb.String()
}

// FormatGuitarDetail renders every field of a guitar followed by its service history
func FormatGuitarDetail(g *models.Guitar, records []*models.ServiceRecord, currency string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s\n", bold(g.DisplayName()), cyan(g.Type.Label())))
	sb.WriteString(Separator())

	row := func(label, value string) {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint(fmt.Sprintf("%-15s", label+":")), value))
	}

	row("ID", fmt.Sprintf("%d", g.ID))
	if g.Year != nil {
		row("Year", fmt.Sprintf("%d", *g.Year))
	}
	if g.SerialNumber != nil {
		row("Serial Number", *g.SerialNumber)
	}
	if g.Color != nil {
		row("Color", *g.Color)
	}
	row("Purchase Price", shared.FormatCurrency(currency, g.PurchasePrice))
	row("Current Value", shared.FormatCurrency(currency, g.CurrentValue))
	if g.PurchaseDate != nil {
		row("Purchase Date", shared.FormatDate(*g.PurchaseDate))
	}
	if g.Notes != nil {
		sb.WriteString(fmt.Sprintf("\n%s\n%s\n", bold("Notes"), *g.Notes))
	}

	sb.WriteString(fmt.Sprintf("\n%s\n", bold("Service History")))
	sb.WriteString(FormatServiceRecords(records, currency))

	sb.WriteString("\n")
	sb.WriteString(faint(fmt.Sprintf("Added on %s", shared.FormatDate(g.CreatedAt))))
	if g.UpdatedAt != g.CreatedAt {
		sb.WriteString(faint(fmt.Sprintf(" · Last updated %s", shared.FormatDate(g.UpdatedAt))))
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatServiceRecords renders service records, one per line
func FormatServiceRecords(records []*models.ServiceRecord, currency string) string {
	if len(records) == 0 {
		return faint("  No service records.") + "\n"
	}

	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("  %s  %s  %s %s  %s\n",
			faint(fmt.Sprintf("%4d", r.ID)),
			r.Date,
			cyan(fmt.Sprintf("%-13s", r.Type.Label())),
			r.Description,
			faint(shared.FormatCurrency(currency, r.Cost)),
		))
		if r.Notes != nil {
			sb.WriteString(fmt.Sprintf("        %s\n", faint(*r.Notes)))
		}
	}
	return sb.String()
}

// RenderMarkdown styles Markdown for the terminal, falling back to the raw text when rendering fails.
func RenderMarkdown(md []byte) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return string(md)
	}

	out, err := renderer.Render(string(md))
	if err != nil {
		return string(md)
	}
	return out
}

// Separator returns a faint horizontal rule
func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

// Success prefixes msg with a green check mark
func Success(msg string) string {
	return green("✓ ") + msg
}

// Error prefixes msg with a red cross
func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}
