package views

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/f3rmion/gematria/internal/clipboard"
	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
	"github.com/f3rmion/gematria/internal/store"
)

// StatusMsg sets the status line.
type StatusMsg struct {
	Text string
	Err  error
}

// SavedMsg reports a calculation written to history.
type SavedMsg struct {
	Calc *store.CalculationResult
	Err  error
}

// HistoryLoadedMsg carries a fresh history listing.
type HistoryLoadedMsg struct {
	Items []*store.CalculationResult
	Tags  map[string]string // tag ID -> name
	Err   error
}

// HistoryChangedMsg reports a store write; the history view reloads.
type HistoryChangedMsg struct {
	Status string
}

// CiphersLoadedMsg carries the custom ciphers after a (re)load.
type CiphersLoadedMsg struct {
	Ciphers []*gematria.CustomCipher
	Err     error
}

// storeTimeout bounds every store call made from the UI.
const storeTimeout = 5 * time.Second

var errNoStore = errors.WithHint(
	errors.New("history is not available"),
	"run 'gem init' to create the database",
)

func statusErr(err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Err: err} }
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.Write(text); err != nil {
			return StatusMsg{Err: errors.Wrap(err, "copying to clipboard")}
		}
		return StatusMsg{Text: "Copied " + text}
	}
}

// LoadHistory lists saved calculations matching f.
func LoadHistory(st *store.Store, f store.Filter) tea.Cmd {
	return func() tea.Msg {
		if st == nil {
			return HistoryLoadedMsg{Err: errNoStore}
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		items, err := st.List(ctx, f)
		if err != nil {
			return HistoryLoadedMsg{Err: err}
		}
		tags, err := st.ListTags(ctx)
		if err != nil {
			return HistoryLoadedMsg{Err: err}
		}
		names := make(map[string]string, len(tags))
		for _, t := range tags {
			names[t.ID] = t.Name
		}
		return HistoryLoadedMsg{Items: items, Tags: names}
	}
}

func storeCmd(st *store.Store, done string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if st == nil {
			return StatusMsg{Err: errNoStore}
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			return StatusMsg{Err: err}
		}
		return HistoryChangedMsg{Status: done}
	}
}
