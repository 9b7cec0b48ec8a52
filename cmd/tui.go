package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/ui"
)

// TUI launches the interactive shift tracker.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	logFile, err := shared.RedirectLogger(r.logger, "./tmp/prima-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()

	model := ui.NewModel(ctx, ui.Options{
		Manager:    r.manager,
		User:       r.currentUser(ctx),
		Sharer:     r.sharer,
		StudioName: r.config.Studio.Name,
		Clock:      r.now,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
