package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gematria/internal/cipher"
	"github.com/f3rmion/gematria/internal/tui/views"
)

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(AppModel)
	require.True(t, ok)
	return app, cmd
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppSwitchesViews(t *testing.T) {
	m := NewApp(Deps{})
	assert.Equal(t, "Loading...", m.View())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Contains(t, m.View(), "Calculate")

	// Digits go to the calculator input until the sidebar has focus.
	m, _ = update(t, m, keys("2"))
	assert.Equal(t, ViewCalculator, m.currentView)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.sidebarActive)
	m, _ = update(t, m, keys("2"))
	assert.Equal(t, ViewHistory, m.currentView)
	assert.False(t, m.sidebarActive)

	m, _ = update(t, m, keys("3"))
	assert.Equal(t, ViewCiphers, m.currentView)
	assert.Contains(t, m.View(), "Custom Ciphers")
}

func TestAppHelpAndQuit(t *testing.T) {
	m := NewApp(Deps{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m, _ = update(t, m, keys("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Global Keys")
	m, _ = update(t, m, keys("x"))
	assert.False(t, m.showHelp)

	_, cmd := update(t, m, keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppStatusClears(t *testing.T) {
	m := NewApp(Deps{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = update(t, m, views.StatusMsg{Text: "Copied 376"})
	assert.Contains(t, m.View(), "Copied 376")

	m, _ = update(t, m, views.StatusMsg{Text: "newer"})
	m, _ = update(t, m, clearStatusMsg{seq: m.statusSeq - 1})
	assert.Equal(t, "newer", m.status)

	m, _ = update(t, m, clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.status)
}

func TestAppReloadsCiphersOnChange(t *testing.T) {
	events := make(chan cipher.Event, 1)
	m := NewApp(Deps{Events: events})

	events <- cipher.Event{Path: "x.json"}
	msg := waitForCipherEvent(events)()
	changed, ok := msg.(CipherChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "x.json", changed.Event.Path)

	_, cmd := update(t, m, changed)
	assert.NotNil(t, cmd)

	close(events)
	assert.IsType(t, watchClosedMsg{}, waitForCipherEvent(events)())
	assert.Nil(t, waitForCipherEvent(nil))
}
