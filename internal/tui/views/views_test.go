package views

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/f3rmion/gematria/internal/cipher"
	"github.com/f3rmion/gematria/internal/gematria"
	"github.com/f3rmion/gematria/internal/store"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestCalculatorDetectsLanguage(t *testing.T) {
	m := NewCalculatorModel(nil, gematria.Hebrew, false)
	assert.True(t, m.Typing())
	assert.Equal(t, gematria.Hebrew, m.Language())

	m.SetText("שלום")
	require.NotEmpty(t, m.Rows())
	assert.Equal(t, string(gematria.HebrewStandard), m.Rows()[0].Method)
	assert.Equal(t, 376, m.Rows()[0].Value)

	m.SetText("hello")
	assert.Equal(t, gematria.English, m.Language())
	assert.Len(t, m.Rows(), len(gematria.MethodsFor(gematria.English)))
}

func TestCalculatorLettersIgnoreCase(t *testing.T) {
	m := NewCalculatorModel(nil, gematria.Greek, false)
	m.SetText("ΛΟΓΟΣ")
	assert.Equal(t, gematria.Greek, m.Language())
	assert.Equal(t, []rune("ΛΟΓΟΣ"), m.letters)
	assert.Contains(t, m.View(), "30")
}

func TestCalculatorTypingRecomputes(t *testing.T) {
	m := NewCalculatorModel(nil, gematria.English, false)
	m, _ = m.Update(runes("abc"))
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 6, row.Value)
	assert.Contains(t, m.View(), "Calculate")
}

func TestCalculatorSelectionAndLanguageCycle(t *testing.T) {
	m := NewCalculatorModel(nil, gematria.Hebrew, false)
	m.SetText("אב")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, string(gematria.HebrewOrdinal), row.Method)
	assert.Equal(t, 3, row.Value)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	row, _ = m.Selected()
	assert.Equal(t, string(gematria.HebrewStandard), row.Method)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, gematria.Languages[0], m.Language())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, gematria.Languages[1], m.Language())
}

func TestCalculatorIncludesCustomCiphers(t *testing.T) {
	m := NewCalculatorModel(nil, gematria.English, false)
	m.SetCiphers([]*gematria.CustomCipher{
		{ID: "c1", Name: "Tens", Language: gematria.English, Values: map[string]int{"a": 10}},
		{ID: "c2", Name: "Other", Language: gematria.Greek, Values: map[string]int{"α": 10}},
	})
	m.SetText("aa")

	rows := m.Rows()
	last := rows[len(rows)-1]
	assert.Equal(t, "custom:c1", last.Method)
	assert.Equal(t, 20, last.Value)
	assert.Len(t, rows, len(gematria.MethodsFor(gematria.English))+1)
}

func TestCalculatorSaveWithoutStore(t *testing.T) {
	m := NewCalculatorModel(nil, gematria.Hebrew, false)
	m.SetText("שלום")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(SavedMsg)
	require.True(t, ok)
	assert.Error(t, msg.Err)
}

func TestCalculatorSaveWritesHistory(t *testing.T) {
	st := openStore(t)
	m := NewCalculatorModel(st, gematria.Hebrew, false)
	m.SetText("שלום")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd().(SavedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, 376, msg.Calc.Result)

	got, err := st.Get(context.Background(), msg.Calc.ID)
	require.NoError(t, err)
	assert.Equal(t, "שלום", got.Text)
	assert.Equal(t, "hebrew", got.Language)
}

func TestHistoryFavoriteAndDelete(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	c := &store.CalculationResult{Text: "אמת", Method: "hebrew-standard", MethodName: "Standard", Language: "hebrew", Result: 441}
	require.NoError(t, st.Save(ctx, c))

	m := NewHistoryModel(st)
	m, _ = m.Update(m.Load()())
	require.Len(t, m.Items(), 1)
	assert.Contains(t, m.View(), "אמת")

	_, cmd := m.Update(runes("f"))
	require.NotNil(t, cmd)
	changed, ok := cmd().(HistoryChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "Marked as favorite", changed.Status)

	got, err := st.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)

	m, _ = m.Update(runes("F"))
	assert.True(t, m.Filter().FavoritesOnly)
	m, _ = m.Update(m.Load()())
	require.Len(t, m.Items(), 1)

	_, cmd = m.Update(runes("d"))
	require.NotNil(t, cmd)
	_, ok = cmd().(HistoryChangedMsg)
	require.True(t, ok)
	m, _ = m.Update(m.Load()())
	assert.Empty(t, m.Items())
}

func TestHistorySearch(t *testing.T) {
	m := NewHistoryModel(nil)
	m, _ = m.Update(runes("/"))
	assert.True(t, m.Typing())

	m, _ = m.Update(runes("love"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Typing())
	assert.Equal(t, "love", m.Filter().Search)

	msg := cmd().(HistoryLoadedMsg)
	assert.Error(t, msg.Err)
	m, _ = m.Update(msg)
	assert.Contains(t, m.View(), "not available")
}

func TestCiphersLoadAndDelete(t *testing.T) {
	repo := cipher.NewRepository(filepath.Join(t.TempDir(), "ciphers"), zaptest.NewLogger(t).Sugar())
	require.NoError(t, repo.Save(&gematria.CustomCipher{
		Name:     "Simple",
		Language: gematria.English,
		Values:   map[string]int{"a": 1, "b": 2},
	}))

	m := NewCiphersModel(repo)
	assert.False(t, m.Typing())
	m, _ = m.Update(LoadCiphers(repo)())
	require.Len(t, m.Ciphers(), 1)
	view := m.View()
	assert.Contains(t, view, "Simple")
	assert.Contains(t, view, "English")

	_, cmd := m.Update(runes("d"))
	require.NotNil(t, cmd)
	status := cmd().(StatusMsg)
	require.NoError(t, status.Err)

	left, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, left)
}
