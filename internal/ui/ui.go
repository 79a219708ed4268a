package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GuitarListView ViewState = iota
	GuitarDetailView
	ConfirmView
)

// confirmTarget is what a [ConfirmView] will delete.
type confirmTarget struct {
	record *models.ServiceRecord // nil when the guitar itself is the target
	from   ViewState
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	guitars    models.GuitarRepository
	records    models.ServiceRecordRepository
	currency   string
	width      int
	height     int
	guitarList list.Model
	recordList list.Model
	selected   *models.Guitar
	history    []*models.ServiceRecord
	pending    confirmTarget
	status     string
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, guitars models.GuitarRepository, records models.ServiceRecordRepository, currency string) *Model {
	m := &Model{
		ctx:      ctx,
		view:     GuitarListView,
		guitars:  guitars,
		records:  records,
		currency: currency,
		help:     help.New(),
		keys:     newKeyMap(),
	}
	m.guitarList = newList("Guitar Collection", nil)
	m.recordList = newList("Service History", nil)
	return m
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.Filter = substringFilter
	l.SetShowHelp(false)
	return l
}

// Init loads the collection.
func (m *Model) Init() tea.Cmd {
	return m.fetchGuitars()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			return m.handleErrorKeys(msg)
		}
		switch m.view {
		case GuitarListView:
			return m.handleGuitarListKeys(msg)
		case GuitarDetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgGuitarsFetched:
		data := msg.data.(guitarsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		cmd := m.guitarList.SetItems(guitarItems(data.guitars, m.currency))
		m.guitarList.Title = fmt.Sprintf("Guitar Collection (%d)", len(data.guitars))
		return m, cmd

	case MsgDetailFetched:
		data := msg.data.(detailFetched)
		if data.err != nil {
			m.err = data.err
			m.view = GuitarListView
			return m, nil
		}
		m.selected = data.guitar
		m.history = data.records
		m.recordList.ResetSelected()
		cmd := m.recordList.SetItems(recordItems(data.records, m.currency))
		m.recordList.Title = fmt.Sprintf("Service History (%d)", len(data.records))
		m.view = GuitarDetailView
		return m, cmd

	case MsgHistoryLoaded:
		data := msg.data.(detailFetched)
		if data.err != nil {
			m.err = data.err
			m.view = m.pending.from
			return m, nil
		}
		m.history = data.records
		return m, nil

	case MsgGuitarDeleted:
		data := msg.data.(deleted)
		m.view = GuitarListView
		m.selected = nil
		m.history = nil
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.status = fmt.Sprintf("Deleted %s", data.name)
		return m, m.fetchGuitars()

	case MsgRecordDeleted:
		data := msg.data.(deleted)
		m.view = GuitarDetailView
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.status = fmt.Sprintf("Deleted %s", data.name)
		return m, m.fetchDetail(m.selected.ID)
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back, q to quit", m.err))
	}

	switch m.view {
	case GuitarListView:
		return m.renderGuitarList()
	case GuitarDetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) resize() {
	w, h := max(m.width-4, 0), max(m.height-8, 0)
	m.guitarList.SetSize(w, h)
	m.recordList.SetSize(w, max(h-12, 5))
}

func (m *Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.err = nil
	}
	return m, nil
}

func (m *Model) handleGuitarListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Keys belong to the filter input while the user is typing.
	if m.guitarList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.guitarList, cmd = m.guitarList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		m.status = ""
		return m, m.fetchGuitars()
	case key.Matches(msg, m.keys.enter):
		if g := m.selectedGuitar(); g != nil {
			m.status = ""
			return m, m.fetchDetail(g.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if g := m.selectedGuitar(); g != nil {
			m.selected = g
			m.pending = confirmTarget{from: GuitarListView}
			m.view = ConfirmView
			return m, m.fetchHistoryForConfirm(g.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.guitarList, cmd = m.guitarList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.recordList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.recordList, cmd = m.recordList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = GuitarListView
		m.selected = nil
		m.history = nil
		m.status = ""
		return m, m.fetchGuitars()
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchDetail(m.selected.ID)
	case key.Matches(msg, m.keys.remove):
		m.pending = confirmTarget{from: GuitarDetailView}
		m.view = ConfirmView
		return m, nil
	case key.Matches(msg, m.keys.removeR):
		if item, ok := m.recordList.SelectedItem().(recordItem); ok {
			m.pending = confirmTarget{record: item.record, from: GuitarDetailView}
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.recordList, cmd = m.recordList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		if r := m.pending.record; r != nil {
			return m, m.deleteRecord(r)
		}
		return m, m.deleteGuitar(m.selected)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = m.pending.from
		m.pending = confirmTarget{}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case GuitarListView:
		m.guitarList, cmd = m.guitarList.Update(msg)
	case GuitarDetailView:
		m.recordList, cmd = m.recordList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedGuitar() *models.Guitar {
	if item, ok := m.guitarList.SelectedItem().(guitarItem); ok {
		return item.guitar
	}
	return nil
}

func (m *Model) fetchGuitars() tea.Cmd {
	return func() tea.Msg {
		guitars, err := m.guitars.GetAll(m.ctx)
		return guitarsFetchedMsg(guitars, err)
	}
}

func (m *Model) fetchDetail(id int64) tea.Cmd {
	return func() tea.Msg {
		guitar, err := m.guitars.GetByID(m.ctx, id)
		if err != nil {
			return detailFetchedMsg(nil, nil, err)
		}
		records, err := m.records.GetByGuitarID(m.ctx, id)
		return detailFetchedMsg(guitar, records, err)
	}
}

// fetchHistoryForConfirm loads the service history so the confirmation can say how many records go with the guitar.
func (m *Model) fetchHistoryForConfirm(id int64) tea.Cmd {
	return func() tea.Msg {
		records, err := m.records.GetByGuitarID(m.ctx, id)
		return historyLoadedMsg(records, err)
	}
}

func (m *Model) deleteGuitar(g *models.Guitar) tea.Cmd {
	return func() tea.Msg {
		return guitarDeletedMsg(g.DisplayName(), m.guitars.Delete(m.ctx, g.ID))
	}
}

func (m *Model) deleteRecord(r *models.ServiceRecord) tea.Cmd {
	return func() tea.Msg {
		name := fmt.Sprintf("%s service record from %s", strings.ToLower(r.Type.Label()), shared.FormatDate(r.Date))
		return recordDeletedMsg(name, m.records.Delete(m.ctx, r.ID))
	}
}

func (m *Model) renderGuitarList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.remove, m.keys.refresh, m.keys.quit}
	return m.withStatus(m.guitarList.View(), helpKeys)
}

func (m *Model) renderDetail() string {
	g := m.selected
	if g == nil {
		return ""
	}

	title := styles.title.Render(g.DisplayName())

	rows := []string{m.row("Type", g.Type.Label())}
	if g.SerialNumber != nil {
		rows = append(rows, m.row("Serial Number", *g.SerialNumber))
	}
	if g.Color != nil {
		rows = append(rows, m.row("Color", *g.Color))
	}
	rows = append(rows,
		m.row("Purchase Price", shared.FormatCurrency(m.currency, g.PurchasePrice)),
		m.row("Current Value", shared.FormatCurrency(m.currency, g.CurrentValue)),
	)
	if g.PurchaseDate != nil {
		rows = append(rows, m.row("Purchase Date", shared.FormatDate(*g.PurchaseDate)))
	}
	if g.Notes != nil {
		rows = append(rows, m.row("Notes", *g.Notes))
	}
	rows = append(rows, m.row("Added", shared.FormatDate(g.CreatedAt)))

	panel := styles.panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	body := lipgloss.JoinVertical(lipgloss.Left, title, panel, "", m.recordList.View())

	helpKeys := []key.Binding{m.keys.back, m.keys.remove, m.keys.removeR, m.keys.quit}
	return m.withStatus(body, helpKeys)
}

func (m *Model) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, styles.label.Render(label), value)
}

func (m *Model) renderConfirm() string {
	var title, info string
	if r := m.pending.record; r != nil {
		title = styles.warn.Render("Delete this service record?")
		info = fmt.Sprintf("\n%s\n%s\n",
			m.row("Date", shared.FormatDate(r.Date)),
			m.row("Service", r.Type.Label()+": "+r.Description),
		)
	} else if m.selected != nil {
		n := len(m.history)
		title = styles.warn.Render(fmt.Sprintf("Delete '%s'?", m.selected.DisplayName()))
		info = fmt.Sprintf("\nIts %s %s will be removed too. This cannot be undone.\n",
			strconv.Itoa(n), shared.Pluralize(n, "service record", "service records"))
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) withStatus(body string, helpKeys []key.Binding) string {
	helpView := m.help.ShortHelpView(helpKeys)
	if m.status == "" {
		return fmt.Sprintf("%s\n\n%s", body, helpView)
	}
	return fmt.Sprintf("%s\n\n%s\n%s", body, styles.ok.Render("✓ "+m.status), helpView)
}
