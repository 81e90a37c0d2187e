package views

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/gematria/internal/cipher"
	"github.com/f3rmion/gematria/internal/gematria"
)

// CiphersModel lists the custom ciphers on disk.
type CiphersModel struct {
	repo     *cipher.Repository
	ciphers  []*gematria.CustomCipher
	selected int
	err      error

	width  int
	height int
}

// NewCiphersModel creates the cipher view. repo may be nil.
func NewCiphersModel(repo *cipher.Repository) CiphersModel {
	return CiphersModel{repo: repo}
}

// SetSize updates the view dimensions.
func (m *CiphersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Typing is always false; the view has no text input.
func (m CiphersModel) Typing() bool {
	return false
}

// Ciphers returns the loaded ciphers.
func (m CiphersModel) Ciphers() []*gematria.CustomCipher {
	return m.ciphers
}

// LoadCiphers reads every cipher in repo.
func LoadCiphers(repo *cipher.Repository) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return CiphersLoadedMsg{}
		}
		cs, err := repo.List()
		return CiphersLoadedMsg{Ciphers: cs, Err: err}
	}
}

// Update handles messages.
func (m CiphersModel) Update(msg tea.Msg) (CiphersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case CiphersLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.ciphers = msg.Ciphers
		}
		if m.selected >= len(m.ciphers) {
			m.selected = max(len(m.ciphers)-1, 0)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selected < len(m.ciphers)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "r":
			return m, LoadCiphers(m.repo)
		case "d", "delete":
			if m.repo == nil || m.selected >= len(m.ciphers) {
				return m, nil
			}
			c := m.ciphers[m.selected]
			repo := m.repo
			return m, func() tea.Msg {
				if err := repo.Delete(c.ID); err != nil {
					return StatusMsg{Err: err}
				}
				return StatusMsg{Text: "Deleted cipher " + c.Name}
			}
		}
	}
	return m, nil
}

// View renders the cipher list and the selected cipher's table.
func (m CiphersModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Custom Ciphers"))
	if m.repo != nil {
		b.WriteString("  " + subtitleStyle.Render(m.repo.Dir()))
	}
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	case len(m.ciphers) == 0:
		b.WriteString(helpStyle.Render("No custom ciphers. Create one with 'gem cipher create --from <method> <name>'.") + "\n")
	default:
		var names []string
		for i, c := range m.ciphers {
			line := runewidth.FillRight(runewidth.Truncate(c.Name, 24, "…"), 24) + " " + c.Language.Title()
			if i == m.selected {
				names = append(names, rowSelectedStyle.Render("▸ "+line))
			} else {
				names = append(names, rowStyle.Render("  "+line))
			}
		}
		list := boxStyle.Render(strings.Join(names, "\n"))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", m.renderTable(m.ciphers[m.selected])))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("j/k move • d delete • r reload • edits on disk reload automatically"))
	return b.String()
}

func (m CiphersModel) renderTable(c *gematria.CustomCipher) string {
	var b strings.Builder
	agg := c.Aggregation
	if agg == "" {
		agg = gematria.AggSum
	}
	b.WriteString(labelStyle.Render("Aggregation") + string(agg) + "\n")
	if c.Description != "" {
		b.WriteString(labelStyle.Render("About") + c.Description + "\n")
	}
	b.WriteString("\n")

	const perLine = 6
	letters := c.Letters()
	for i := 0; i < len(letters); i += perLine {
		var cells []string
		for _, l := range letters[i:min(i+perLine, len(letters))] {
			cells = append(cells, l+" "+runewidth.FillLeft(strconv.Itoa(c.Values[l]), 4))
		}
		b.WriteString(strings.Join(cells, "  ") + "\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
