// Package anki reads Anki .apkg files so deck fields can be evaluated, and
// writes computed values back into a copy of the deck.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/f3rmion/gematria/internal/errors"
)

// Package represents an opened Anki .apkg file.
type Package struct {
	path    string
	tempDir string
	dbPath  string
	db      *sql.DB
	Models  map[int64]*Model
	Decks   map[int64]*Deck
	Notes   []*Note
	Cards   []*Card
}

// Model represents an Anki note type.
type Model struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"flds"`
	CSS    string  `json:"css"`
	Type   int     `json:"type"` // 0 = standard, 1 = cloze

	raw map[string]json.RawMessage
}

// Field represents a field in a note type.
type Field struct {
	Name   string `json:"name"`
	Ord    int    `json:"ord"`
	Sticky bool   `json:"sticky"`
	RTL    bool   `json:"rtl"`
	Font   string `json:"font"`
	Size   int    `json:"size"`
}

// Deck represents an Anki deck.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Note represents an Anki note.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Mod     int64
	Tags    string
	Fields  []string // split from flds
	RawFlds string
	SFLD    string
	CSum    int64
}

// Card links a note to a deck.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
	Ord    int
}

// OpenPackage extracts an .apkg file to a temp directory and loads its
// models, decks, notes and cards.
func OpenPackage(path string) (*Package, error) {
	pkg := &Package{
		path:   path,
		Models: make(map[int64]*Model),
		Decks:  make(map[int64]*Deck),
	}

	tempDir, err := os.MkdirTemp("", "gem-anki-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp dir")
	}
	pkg.tempDir = tempDir

	if err := pkg.extract(); err != nil {
		pkg.Close()
		return nil, err
	}

	// Newer exports ship both; collection.anki21 holds the real data.
	pkg.dbPath = ""
	for _, name := range []string{"collection.anki21", "collection.anki2"} {
		p := filepath.Join(tempDir, name)
		if _, err := os.Stat(p); err == nil {
			pkg.dbPath = p
			break
		}
	}
	if pkg.dbPath == "" {
		pkg.Close()
		return nil, errors.WithHint(
			errors.InvalidArgumentf("%s contains no Anki collection", path),
			"export the deck from Anki as a .apkg package",
		)
	}

	db, err := sql.Open("sqlite", pkg.dbPath)
	if err != nil {
		pkg.Close()
		return nil, errors.Wrap(err, "opening collection")
	}
	pkg.db = db

	for _, load := range []func() error{pkg.loadCollection, pkg.loadNotes, pkg.loadCards} {
		if err := load(); err != nil {
			pkg.Close()
			return nil, err
		}
	}
	return pkg, nil
}

// extract unzips the .apkg file.
func (p *Package) extract() error {
	r, err := zip.OpenReader(p.path)
	if err != nil {
		return errors.Wrap(err, "opening zip")
	}
	defer r.Close()

	for _, f := range r.File {
		fpath := filepath.Join(p.tempDir, f.Name)

		// Prevent zip slip
		if !strings.HasPrefix(fpath, filepath.Clean(p.tempDir)+string(os.PathSeparator)) {
			return errors.InvalidArgumentf("illegal file path in package: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return err
		}
		if err := extractFile(f, fpath); err != nil {
			return errors.Wrapf(err, "extracting %s", f.Name)
		}
	}
	return nil
}

func extractFile(f *zip.File, dst string) error {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(out, rc)
	return err
}

// loadCollection loads models and decks from the col table.
func (p *Package) loadCollection() error {
	var models, decks string
	if err := p.db.QueryRow("SELECT models, decks FROM col").Scan(&models, &decks); err != nil {
		return errors.Wrap(err, "reading collection")
	}

	var modelsMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(models), &modelsMap); err != nil {
		return errors.Wrap(err, "parsing models")
	}
	for _, raw := range modelsMap {
		var model Model
		if err := json.Unmarshal(raw, &model); err != nil {
			continue // Skip malformed models
		}
		// Keep unknown keys so SaveAs does not drop templates.
		if err := json.Unmarshal(raw, &model.raw); err != nil {
			continue
		}
		p.Models[model.ID] = &model
	}

	var decksMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(decks), &decksMap); err != nil {
		return errors.Wrap(err, "parsing decks")
	}
	for _, raw := range decksMap {
		var deck Deck
		if err := json.Unmarshal(raw, &deck); err != nil {
			continue // Skip malformed decks
		}
		p.Decks[deck.ID] = &deck
	}
	return nil
}

// loadNotes loads all notes.
func (p *Package) loadNotes() error {
	rows, err := p.db.Query("SELECT id, guid, mid, mod, tags, flds, sfld, csum FROM notes ORDER BY id")
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	defer rows.Close()

	for rows.Next() {
		var note Note
		if err := rows.Scan(&note.ID, &note.GUID, &note.ModelID, &note.Mod,
			&note.Tags, &note.RawFlds, &note.SFLD, &note.CSum); err != nil {
			return errors.Wrap(err, "scanning note")
		}
		// Fields are separated by ASCII 31.
		note.Fields = strings.Split(note.RawFlds, "\x1f")
		p.Notes = append(p.Notes, &note)
	}
	return rows.Err()
}

// loadCards loads the note-to-deck links.
func (p *Package) loadCards() error {
	rows, err := p.db.Query("SELECT id, nid, did, ord FROM cards ORDER BY id")
	if err != nil {
		return errors.Wrap(err, "querying cards")
	}
	defer rows.Close()

	for rows.Next() {
		var card Card
		if err := rows.Scan(&card.ID, &card.NoteID, &card.DeckID, &card.Ord); err != nil {
			return errors.Wrap(err, "scanning card")
		}
		p.Cards = append(p.Cards, &card)
	}
	return rows.Err()
}

// GetModel returns the model for a note.
func (p *Package) GetModel(note *Note) *Model {
	return p.Models[note.ModelID]
}

// GetFieldValue returns a field of a note by name, ignoring case.
func (p *Package) GetFieldValue(note *Note, fieldName string) (string, bool) {
	model := p.GetModel(note)
	if model == nil {
		return "", false
	}
	for _, field := range model.Fields {
		if strings.EqualFold(field.Name, fieldName) && field.Ord < len(note.Fields) {
			return note.Fields[field.Ord], true
		}
	}
	return "", false
}

// FieldNames returns every distinct field name across models, sorted.
func (p *Package) FieldNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range p.Models {
		for _, f := range m.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				names = append(names, f.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// FieldValue is the plain text of one note's field.
type FieldValue struct {
	NoteID int64
	Text   string
}

// FieldValues returns the named field of every note that has it, with HTML
// removed. When deck is non-empty only notes with a card in a deck of that
// name (or a subdeck) are returned. Empty values are skipped.
func (p *Package) FieldValues(field, deck string) ([]FieldValue, error) {
	var inDeck map[int64]bool
	if deck != "" {
		inDeck = map[int64]bool{}
		for _, c := range p.Cards {
			d := p.Decks[c.DeckID]
			if d != nil && (strings.EqualFold(d.Name, deck) || strings.HasPrefix(strings.ToLower(d.Name), strings.ToLower(deck)+"::")) {
				inDeck[c.NoteID] = true
			}
		}
	}

	found := false
	var out []FieldValue
	for _, note := range p.Notes {
		if inDeck != nil && !inDeck[note.ID] {
			continue
		}
		raw, ok := p.GetFieldValue(note, field)
		if !ok {
			continue
		}
		found = true
		text := StripHTML(raw)
		if text == "" {
			continue
		}
		out = append(out, FieldValue{NoteID: note.ID, Text: text})
	}
	if !found && len(p.Notes) > 0 {
		return nil, errors.WithHintf(
			errors.NotFoundf("field %q", field),
			"available fields: %s", strings.Join(p.FieldNames(), ", "),
		)
	}
	return out, nil
}

var (
	tagRe   = regexp.MustCompile(`(?s)<[^>]*>`)
	soundRe = regexp.MustCompile(`\[sound:[^\]]*\]`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// StripHTML reduces an Anki field to plain text.
func StripHTML(s string) string {
	s = soundRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Close removes the temp directory.
func (p *Package) Close() error {
	if p.db != nil {
		p.db.Close()
	}
	if p.tempDir != "" {
		os.RemoveAll(p.tempDir)
	}
	return nil
}

// Summary returns a summary of the package contents.
func (p *Package) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Anki Package: %s\n", p.path)
	fmt.Fprintf(&sb, "  Decks: %d\n", len(p.Decks))
	for _, deck := range sortedDecks(p.Decks) {
		fmt.Fprintf(&sb, "    - %s\n", deck.Name)
	}
	fmt.Fprintf(&sb, "  Note types: %d\n", len(p.Models))
	for _, model := range p.Models {
		fmt.Fprintf(&sb, "    - %s (%d fields)\n", model.Name, len(model.Fields))
	}
	fmt.Fprintf(&sb, "  Notes: %d\n", len(p.Notes))
	fmt.Fprintf(&sb, "  Cards: %d\n", len(p.Cards))
	return sb.String()
}

func sortedDecks(m map[int64]*Deck) []*Deck {
	out := make([]*Deck, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
