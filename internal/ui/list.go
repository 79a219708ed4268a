package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
)

var (
	_ list.Item = guitarItem{}
	_ list.Item = recordItem{}
)

// guitarItem wraps [models.Guitar] to implement [list.Item].
type guitarItem struct {
	guitar   *models.Guitar
	currency string
}

// FilterValue lists the searchable fields one per line, so a match never spans two fields.
func (i guitarItem) FilterValue() string {
	parts := []string{i.guitar.Brand, i.guitar.Model}
	if i.guitar.SerialNumber != nil {
		parts = append(parts, *i.guitar.SerialNumber)
	}
	if i.guitar.Notes != nil {
		parts = append(parts, *i.guitar.Notes)
	}
	return strings.Join(parts, "\n")
}

func (i guitarItem) Title() string { return i.guitar.DisplayName() }
func (i guitarItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.guitar.Type.Label(), shared.FormatCurrency(i.currency, i.guitar.CurrentValue))
	if i.guitar.Color != nil {
		desc = fmt.Sprintf("%s • %s", desc, *i.guitar.Color)
	}
	return desc
}

// recordItem wraps [models.ServiceRecord] to implement [list.Item].
type recordItem struct {
	record   *models.ServiceRecord
	currency string
}

func (i recordItem) FilterValue() string { return i.record.Description }
func (i recordItem) Title() string {
	return fmt.Sprintf("%s • %s", shared.FormatDate(i.record.Date), i.record.Type.Label())
}

func (i recordItem) Description() string {
	desc := i.record.Description
	if i.record.Cost != nil {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatCurrency(i.currency, i.record.Cost))
	}
	return desc
}

// substringFilter keeps the items whose filter value contains term, ignoring case, in their original order.
// Match positions are not reported since they index the filter value rather than the rendered title.
func substringFilter(term string, targets []string) []list.Rank {
	needle := strings.ToLower(term)
	ranks := make([]list.Rank, 0, len(targets))
	for i, target := range targets {
		if strings.Contains(strings.ToLower(target), needle) {
			ranks = append(ranks, list.Rank{Index: i})
		}
	}
	return ranks
}

func guitarItems(guitars []*models.Guitar, currency string) []list.Item {
	items := make([]list.Item, len(guitars))
	for i, g := range guitars {
		items[i] = guitarItem{guitar: g, currency: currency}
	}
	return items
}

func recordItems(records []*models.ServiceRecord, currency string) []list.Item {
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = recordItem{record: r, currency: currency}
	}
	return items
}
