package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/gematria/internal/store"
)

// HistoryModel lists saved calculations.
type HistoryModel struct {
	store    *store.Store
	items    []*store.CalculationResult
	tags     map[string]string
	selected int

	favoritesOnly bool
	searching     bool
	search        textinput.Model
	query         string
	err           error

	width  int
	height int
}

// NewHistoryModel creates the history view.
func NewHistoryModel(st *store.Store) HistoryModel {
	ti := textinput.New()
	ti.Placeholder = "Search text or notes..."
	ti.CharLimit = 100
	ti.Width = 40
	return HistoryModel{store: st, search: ti}
}

// SetSize updates the view dimensions.
func (m *HistoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Typing reports whether keys go to the search box.
func (m HistoryModel) Typing() bool {
	return m.searching
}

// Items returns the listed calculations.
func (m HistoryModel) Items() []*store.CalculationResult {
	return m.items
}

// Filter returns the filter the list is loaded with.
func (m HistoryModel) Filter() store.Filter {
	return store.Filter{FavoritesOnly: m.favoritesOnly, Search: m.query}
}

// Load reloads the list with the current filter.
func (m HistoryModel) Load() tea.Cmd {
	return LoadHistory(m.store, m.Filter())
}

func (m HistoryModel) current() *store.CalculationResult {
	if m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return m.items[m.selected]
}

// Update handles messages.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case HistoryLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.items = msg.Items
			m.tags = msg.Tags
		}
		if m.selected >= len(m.items) {
			m.selected = max(len(m.items)-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "enter":
				m.searching = false
				m.search.Blur()
				m.query = strings.TrimSpace(m.search.Value())
				m.selected = 0
				return m, m.Load()
			case "esc":
				m.searching = false
				m.search.Blur()
				m.search.SetValue(m.query)
				return m, nil
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "j", "down":
			if m.selected < len(m.items)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "g", "home":
			m.selected = 0
		case "G", "end":
			m.selected = max(len(m.items)-1, 0)
		case "/":
			m.searching = true
			m.search.Focus()
			return m, textinput.Blink
		case "esc":
			if m.query != "" {
				m.query = ""
				m.search.SetValue("")
				return m, m.Load()
			}
		case "F":
			m.favoritesOnly = !m.favoritesOnly
			m.selected = 0
			return m, m.Load()
		case "r":
			return m, m.Load()
		case "f":
			if c := m.current(); c != nil {
				id, fav := c.ID, !c.Favorite
				done := "Removed from favorites"
				if fav {
					done = "Marked as favorite"
				}
				return m, storeCmd(m.store, done, func(ctx context.Context) error {
					return m.store.SetFavorite(ctx, id, fav)
				})
			}
		case "d", "delete":
			if c := m.current(); c != nil {
				id := c.ID
				return m, storeCmd(m.store, "Deleted "+c.Text, func(ctx context.Context) error {
					return m.store.Delete(ctx, id)
				})
			}
		case "y":
			if c := m.current(); c != nil {
				return m, copyCmd(strconv.Itoa(c.Result))
			}
		}
	}
	return m, nil
}

// View renders the history list.
func (m HistoryModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("History"))
	var filters []string
	if m.favoritesOnly {
		filters = append(filters, "favorites")
	}
	if m.query != "" {
		filters = append(filters, fmt.Sprintf("matching %q", m.query))
	}
	if len(filters) > 0 {
		b.WriteString("  " + subtitleStyle.Render(strings.Join(filters, ", ")))
	}
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(searchBoxStyle.Render(m.search.View()))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case len(m.items) == 0:
		b.WriteString(helpStyle.Render("No saved calculations. Press enter in the calculator to save one."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderList())
		b.WriteString("\n")
		b.WriteString(m.renderDetail())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("j/k move • f favorite • F favorites only • d delete • / search • y copy • r reload"))
	return b.String()
}

func (m HistoryModel) renderList() string {
	visible := len(m.items)
	if m.height > 0 {
		visible = max(m.height-14, 3)
	}
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := min(start+visible, len(m.items))

	var lines []string
	for i := start; i < end; i++ {
		c := m.items[i]
		star := "  "
		if c.Favorite {
			star = favoriteStyle.Render("★ ")
		}
		text := runewidth.FillRight(runewidth.Truncate(c.Text, 24, "…"), 24)
		method := runewidth.FillRight(runewidth.Truncate(c.MethodName, 32, "…"), 32)
		line := fmt.Sprintf("%s %s %7d  %s", text, method, c.Result, c.CreatedAt.Local().Format("2006-01-02"))
		if i == m.selected {
			lines = append(lines, star+rowSelectedStyle.Render(line))
		} else {
			lines = append(lines, star+rowStyle.Render(line))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m HistoryModel) renderDetail() string {
	c := m.current()
	if c == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render("Text") + c.Text + "\n")
	b.WriteString(labelStyle.Render("Method") + c.MethodName + " (" + c.Method + ")\n")
	b.WriteString(labelStyle.Render("Value") + valueStyle.Render(strconv.Itoa(c.Result)) + "\n")
	if len(c.Tags) > 0 {
		names := make([]string, 0, len(c.Tags))
		for _, id := range c.Tags {
			if name, ok := m.tags[id]; ok {
				names = append(names, name)
			}
		}
		b.WriteString(labelStyle.Render("Tags") + strings.Join(names, ", ") + "\n")
	}
	if c.Notes != "" {
		b.WriteString(labelStyle.Render("Notes") + c.Notes + "\n")
	}
	return b.String()
}
