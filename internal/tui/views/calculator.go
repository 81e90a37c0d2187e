package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/gematria/internal/gematria"
	"github.com/f3rmion/gematria/internal/store"
	"github.com/f3rmion/gematria/internal/tui/bigchar"
)

// Row is one method's value for the current input.
type Row struct {
	Method   string
	Name     string
	Language gematria.Language
	Value    int
}

// CalculatorModel evaluates the input under every method of its language.
type CalculatorModel struct {
	input     textinput.Model
	store     *store.Store
	fallback  gematria.Language
	lang      gematria.Language // "" means detect
	current   gematria.Language
	ciphers   []*gematria.CustomCipher
	rows      []Row
	selected  int
	letters   []rune
	letter    int
	bigLetter bool

	width  int
	height int
}

// NewCalculatorModel creates the calculator view. st may be nil, in which
// case saving reports an error.
func NewCalculatorModel(st *store.Store, fallback gematria.Language, bigLetter bool) CalculatorModel {
	ti := textinput.New()
	ti.Placeholder = "Type Hebrew, Greek, English, Coptic or Arabic..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 50
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))

	if fallback == "" {
		fallback = gematria.Hebrew
	}
	m := CalculatorModel{
		input:     ti,
		store:     st,
		fallback:  fallback,
		bigLetter: bigLetter,
	}
	m.recompute()
	return m
}

// SetSize updates the view dimensions.
func (m *CalculatorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-8, 10)
}

// SetCiphers replaces the custom ciphers shown after the built-ins.
func (m *CalculatorModel) SetCiphers(cs []*gematria.CustomCipher) {
	m.ciphers = cs
	m.recompute()
}

// SetText replaces the input text.
func (m *CalculatorModel) SetText(text string) {
	m.input.SetValue(text)
	m.recompute()
}

// Rows returns the values for the current input.
func (m CalculatorModel) Rows() []Row {
	return m.rows
}

// Language returns the language the rows were computed for.
func (m CalculatorModel) Language() gematria.Language {
	return m.current
}

// Selected returns the highlighted row, if any.
func (m CalculatorModel) Selected() (Row, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.selected], true
}

// Typing reports whether keys go to the text input.
func (m CalculatorModel) Typing() bool {
	return m.input.Focused()
}

func (m *CalculatorModel) recompute() {
	text := m.input.Value()
	lang := m.lang
	if lang == "" {
		if detected, ok := gematria.DetectLanguage(text); ok {
			lang = detected
		} else {
			lang = m.fallback
		}
	}
	m.current = lang

	rows := make([]Row, 0, 32)
	for _, r := range gematria.CalculateAll(text, lang) {
		rows = append(rows, Row{Method: string(r.Method), Name: r.Name, Language: lang, Value: r.Value})
	}
	for _, c := range m.ciphers {
		if c.Language != lang {
			continue
		}
		rows = append(rows, Row{
			Method:   "custom:" + c.ID,
			Name:     c.Name + " (custom)",
			Language: lang,
			Value:    c.Calculate(text),
		})
	}
	m.rows = rows
	if m.selected >= len(rows) {
		m.selected = max(len(rows)-1, 0)
	}

	m.letters = nil
	for _, r := range gematria.Normalize(text) {
		if _, ok := letterValue(lang, r); ok {
			m.letters = append(m.letters, r)
		}
	}
	if m.letter >= len(m.letters) {
		m.letter = max(len(m.letters)-1, 0)
	}
}

func letterValue(lang gematria.Language, r rune) (int, bool) {
	ms := gematria.MethodsFor(lang)
	if len(ms) == 0 {
		return 0, false
	}
	return ms[0].Value(r)
}

func (m CalculatorModel) cycleLanguage() gematria.Language {
	if m.lang == "" {
		return gematria.Languages[0]
	}
	for i, l := range gematria.Languages {
		if l == m.lang && i+1 < len(gematria.Languages) {
			return gematria.Languages[i+1]
		}
	}
	return ""
}

// Update handles messages.
func (m CalculatorModel) Update(msg tea.Msg) (CalculatorModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}
			return m, nil
		case "pgup":
			if m.letter > 0 {
				m.letter--
			}
			return m, nil
		case "pgdown":
			if m.letter < len(m.letters)-1 {
				m.letter++
			}
			return m, nil
		case "ctrl+l":
			m.lang = m.cycleLanguage()
			m.recompute()
			return m, nil
		case "ctrl+y":
			if row, ok := m.Selected(); ok {
				return m, copyCmd(strconv.Itoa(row.Value))
			}
			return m, nil
		case "enter":
			return m, m.save()
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.recompute()
	}
	return m, cmd
}

func (m CalculatorModel) save() tea.Cmd {
	row, ok := m.Selected()
	text := strings.TrimSpace(m.input.Value())
	if !ok || text == "" {
		return nil
	}
	st := m.store
	return func() tea.Msg {
		if st == nil {
			return SavedMsg{Err: errNoStore}
		}
		c := &store.CalculationResult{
			Text:       text,
			Method:     row.Method,
			MethodName: row.Name,
			Language:   string(row.Language),
			Result:     row.Value,
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := st.Save(ctx, c); err != nil {
			return SavedMsg{Err: err}
		}
		return SavedMsg{Calc: c}
	}
}

// View renders the calculator.
func (m CalculatorModel) View() string {
	var b strings.Builder

	mode := "auto"
	if m.lang != "" {
		mode = "fixed"
	}
	b.WriteString(titleStyle.Render("Calculate"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s (%s)", m.current.Title(), mode)))
	b.WriteString("\n\n")
	b.WriteString(searchBoxStyle.Render(m.input.View()))
	b.WriteString("\n")

	if len(m.letters) > 0 {
		b.WriteString(m.renderLetters())
		b.WriteString("\n")
	}

	b.WriteString(m.renderRows())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter save • ctrl+y copy • ctrl+l language • pgup/pgdn letter • tab menu"))
	return b.String()
}

func (m CalculatorModel) renderLetters() string {
	var tabs []string
	for i, r := range m.letters {
		style := letterTabStyle
		if i == m.letter {
			style = letterTabActiveStyle
		}
		tabs = append(tabs, style.Render(string(r)))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	r := m.letters[m.letter]
	detail := labelStyle.Render("Letter") + string(r)
	if v, ok := letterValue(m.current, r); ok {
		detail += "\n" + labelStyle.Render("Value") + valueStyle.Render(strconv.Itoa(v))
	}

	if m.bigLetter {
		if art := bigchar.Render(string(r), 16, 8); art != "" {
			return line + "\n" + lipgloss.JoinHorizontal(lipgloss.Center,
				bigLetterStyle.Render(art), "  ", detail)
		}
	}
	return line + "\n" + detail
}

func (m CalculatorModel) renderRows() string {
	if len(m.rows) == 0 {
		return helpStyle.Render("No methods for this language.")
	}

	// Header, input box, letters and help take roughly 16 lines.
	visible := len(m.rows)
	if m.height > 0 {
		visible = max(m.height-16, 5)
	}
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := min(start+visible, len(m.rows))

	nameWidth := 44
	var lines []string
	for i := start; i < end; i++ {
		row := m.rows[i]
		name := runewidth.Truncate(row.Name, nameWidth, "…")
		line := runewidth.FillRight(name, nameWidth) + " " + runewidth.FillLeft(strconv.Itoa(row.Value), 9)
		if i == m.selected {
			lines = append(lines, rowSelectedStyle.Render("▸ "+line))
		} else {
			lines = append(lines, rowStyle.Render("  "+line))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
