package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/fretlog/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgGuitarsFetched MsgKind = iota
	MsgDetailFetched
	MsgHistoryLoaded
	MsgGuitarDeleted
	MsgRecordDeleted
)

type guitarsFetched struct {
	guitars []*models.Guitar
	err     error
}

type detailFetched struct {
	guitar  *models.Guitar
	records []*models.ServiceRecord
	err     error
}

type deleted struct {
	name string
	err  error
}

// guitarsFetchedMsg is the constructor for [MsgGuitarsFetched]
func guitarsFetchedMsg(guitars []*models.Guitar, err error) Msg {
	return Msg{kind: MsgGuitarsFetched, data: guitarsFetched{guitars, err}}
}

// detailFetchedMsg is the constructor for [MsgDetailFetched]
func detailFetchedMsg(guitar *models.Guitar, records []*models.ServiceRecord, err error) Msg {
	return Msg{kind: MsgDetailFetched, data: detailFetched{guitar, records, err}}
}

// historyLoadedMsg is the constructor for [MsgHistoryLoaded]
func historyLoadedMsg(records []*models.ServiceRecord, err error) Msg {
	return Msg{kind: MsgHistoryLoaded, data: detailFetched{records: records, err: err}}
}

// guitarDeletedMsg is the constructor for [MsgGuitarDeleted]
func guitarDeletedMsg(name string, err error) Msg {
	return Msg{kind: MsgGuitarDeleted, data: deleted{name, err}}
}

// recordDeletedMsg is the constructor for [MsgRecordDeleted]
func recordDeletedMsg(name string, err error) Msg {
	return Msg{kind: MsgRecordDeleted, data: deleted{name, err}}
}
