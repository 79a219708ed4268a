package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/desertthunder/fretlog/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing the collection.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	guitars, records, err := r.repos()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, guitars, records, r.currency())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("%w: %w", shared.ErrOperationCancelled, err)
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
