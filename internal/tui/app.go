package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/f3rmion/gematria/internal/cipher"
	"github.com/f3rmion/gematria/internal/config"
	"github.com/f3rmion/gematria/internal/store"
	"github.com/f3rmion/gematria/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewCalculator ViewType = iota
	ViewHistory
	ViewCiphers
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// CipherChangedMsg is sent when a file in the cipher directory changes.
type CipherChangedMsg struct {
	Event cipher.Event
}

// watchClosedMsg is sent when the cipher watch channel closes.
type watchClosedMsg struct{}

// Deps are the services the TUI works against. Store, Ciphers and Events
// may be nil.
type Deps struct {
	Config  *config.Config
	Store   *store.Store
	Ciphers *cipher.Repository
	Events  <-chan cipher.Event
	Log     *zap.SugaredLogger
}

// AppModel is the main TUI model
type AppModel struct {
	deps Deps
	log  *zap.SugaredLogger

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	calculatorView views.CalculatorModel
	historyView    views.HistoryModel
	ciphersView    views.CiphersModel

	status    string
	statusErr bool
	statusSeq int
	showHelp  bool
}

// NewApp creates the TUI application
func NewApp(deps Deps) AppModel {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default("")
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return AppModel{
		deps:         deps,
		log:          log,
		sidebarWidth: 18,
		currentView:  ViewCalculator,
		menuItems: []MenuItem{
			{Label: "Calculate", View: ViewCalculator, Shortcut: "1"},
			{Label: "History", View: ViewHistory, Shortcut: "2"},
			{Label: "Ciphers", View: ViewCiphers, Shortcut: "3"},
		},
		calculatorView: views.NewCalculatorModel(deps.Store, cfg.DefaultLanguage, cfg.Display.BigLetter),
		historyView:    views.NewHistoryModel(deps.Store),
		ciphersView:    views.NewCiphersModel(deps.Ciphers),
	}
}

// Init starts the cursor, the initial loads and the cipher watch.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.historyView.Load(),
		views.LoadCiphers(m.deps.Ciphers),
		waitForCipherEvent(m.deps.Events),
	)
}

func waitForCipherEvent(events <-chan cipher.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return watchClosedMsg{}
		}
		return CipherChangedMsg{Event: ev}
	}
}

func (m AppModel) typing() bool {
	if m.sidebarActive {
		return false
	}
	switch m.currentView {
	case ViewCalculator:
		return m.calculatorView.Typing()
	case ViewHistory:
		return m.historyView.Typing()
	case ViewCiphers:
		return m.ciphersView.Typing()
	}
	return false
}

func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	m.sidebarActive = false
}

// setStatus shows a status line and returns the command that clears it.
func (m *AppModel) setStatus(text string, err error) tea.Cmd {
	m.statusSeq++
	if err != nil {
		m.log.Debugw("status error", "error", err)
		m.status, m.statusErr = err.Error(), true
	} else {
		m.status, m.statusErr = text, false
	}
	return clearStatusAfter(statusTimeout, m.statusSeq)
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.sidebarActive = !m.sidebarActive
			return m, nil
		}

		if !m.typing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case "1", "2", "3":
				m.switchTo(ViewType(msg.String()[0] - '1'))
				return m, nil
			}
		}

		// Sidebar navigation when active
		if m.sidebarActive {
			switch msg.String() {
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
			case "enter", "l", "right":
				m.switchTo(m.menuItems[m.selectedMenu].View)
			case "esc":
				m.sidebarActive = false
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 3
		m.calculatorView.SetSize(contentWidth, contentHeight)
		m.historyView.SetSize(contentWidth, contentHeight)
		m.ciphersView.SetSize(contentWidth, contentHeight)
		return m, nil

	case views.StatusMsg:
		cmd := m.setStatus(msg.Text, msg.Err)
		return m, cmd

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case views.SavedMsg:
		if msg.Err != nil {
			cmd := m.setStatus("", msg.Err)
			return m, cmd
		}
		cmd := m.setStatus("Saved "+msg.Calc.Text+" to history", nil)
		return m, tea.Batch(cmd, m.historyView.Load())

	case views.HistoryChangedMsg:
		cmd := m.setStatus(msg.Status, nil)
		return m, tea.Batch(cmd, m.historyView.Load())

	case views.HistoryLoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case views.CiphersLoadedMsg:
		var status tea.Cmd
		if msg.Err != nil {
			status = m.setStatus("", msg.Err)
		} else {
			m.calculatorView.SetCiphers(msg.Ciphers)
		}
		var cmd tea.Cmd
		m.ciphersView, cmd = m.ciphersView.Update(msg)
		return m, tea.Batch(status, cmd)

	case CipherChangedMsg:
		m.log.Debugw("cipher directory changed", "path", msg.Event.Path, "op", msg.Event.Op.String())
		return m, tea.Batch(views.LoadCiphers(m.deps.Ciphers), waitForCipherEvent(m.deps.Events))

	case watchClosedMsg:
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewCalculator:
		m.calculatorView, cmd = m.calculatorView.Update(msg)
	case ViewHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case ViewCiphers:
		m.ciphersView, cmd = m.ciphersView.Update(msg)
	}
	return m, cmd
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.currentView {
	case ViewCalculator:
		content = m.calculatorView.View()
	case ViewHistory:
		content = m.historyView.View()
	case ViewCiphers:
		content = m.ciphersView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	main := ContentStyle.
		Width(contentWidth).
		Height(m.height - 3).
		Render(content)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus())
}

func (m AppModel) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return StatusErrorStyle.Render(m.status)
	}
	return StatusStyle.Render(m.status)
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string
	items = append(items, SidebarTitleStyle.Render(" א GEMATRIA "), "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		} else {
			style = SidebarItemStyle
		}
		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 5
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}
	items = append(items, SidebarHelpStyle.Render("? Help  q Quit"))

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 3).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

type helpEntry struct{ key, desc string }

var helpSections = []struct {
	title   string
	entries []helpEntry
}{
	{"Global Keys", []helpEntry{
		{"1-3", "Switch views"},
		{"tab", "Toggle sidebar focus"},
		{"?", "Show this help"},
		{"q / ctrl+c", "Quit"},
	}},
	{"Calculate", []helpEntry{
		{"↑/↓", "Select method"},
		{"enter", "Save to history"},
		{"ctrl+y", "Copy value"},
		{"ctrl+l", "Cycle language"},
		{"pgup/pgdn", "Previous/next letter"},
	}},
	{"History", []helpEntry{
		{"j/k", "Navigate"},
		{"f / F", "Favorite / favorites only"},
		{"d", "Delete"},
		{"/", "Search"},
	}},
	{"Ciphers", []helpEntry{
		{"j/k", "Navigate"},
		{"d", "Delete cipher file"},
	}},
}

func (m AppModel) renderHelp() string {
	text := HelpTitleStyle.Render("Gematria") + "\n"
	for _, s := range helpSections {
		text += HelpSectionStyle.Render(s.title) + "\n"
		for _, e := range s.entries {
			text += HelpKeyStyle.Render(e.key) + HelpDescStyle.Render(e.desc) + "\n"
		}
	}
	text += "\n" + SidebarHelpStyle.Italic(true).Render("Press any key to close")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpBoxStyle.Render(text))
}
