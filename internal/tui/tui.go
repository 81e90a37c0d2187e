// Package tui provides the interactive terminal UI for gematria.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/f3rmion/gematria/internal/errors"
)

// statusTimeout is how long a status message stays on screen.
const statusTimeout = 4 * time.Second

type clearStatusMsg struct {
	seq int
}

func clearStatusAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(
		NewApp(deps),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "running TUI")
	}
	return nil
}
