// Package ui implements an interactive terminal browser for the collection using bubbletea's Elm architecture.
//
// The TUI moves between three views:
//  1. [GuitarListView] : Browse and filter the collection
//  2. [GuitarDetailView] : Inspect one guitar and its service history
//  3. [ConfirmView] : Confirm deleting a guitar (with its service records) or a single record
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving repository results via the Msg union type.
// Every repository call runs inside a [tea.Cmd], so the update loop never blocks on the database.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, d/x, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
