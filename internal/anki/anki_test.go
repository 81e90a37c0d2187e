package anki

import (
	"archive/zip"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gematria/internal/errors"
)

const (
	testModels = `{"100":{"id":100,"name":"Hebrew Vocab","flds":[{"name":"Hebrew","ord":0},{"name":"English","ord":1}],"css":"","type":0,"tmpls":[{"name":"Card 1"}]}}`
	testDecks  = `{"1":{"id":1,"name":"Default"},"2":{"id":2,"name":"Hebrew::Torah"}}`
)

// buildPackage writes a minimal .apkg with three notes.
func buildPackage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "collection.anki2")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE col (id INTEGER PRIMARY KEY, models TEXT, decks TEXT)`,
		`CREATE TABLE notes (id INTEGER PRIMARY KEY, guid TEXT, mid INTEGER, mod INTEGER, usn INTEGER,
			tags TEXT, flds TEXT, sfld TEXT, csum INTEGER, flags INTEGER, data TEXT)`,
		`CREATE TABLE cards (id INTEGER PRIMARY KEY, nid INTEGER, did INTEGER, ord INTEGER)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	_, err = db.Exec(`INSERT INTO col (id, models, decks) VALUES (1, ?, ?)`, testModels, testDecks)
	require.NoError(t, err)

	notes := []struct {
		id   int64
		flds string
		deck int64
	}{
		{1, "<b>שָׁלוֹם</b>\x1fpeace", 2},
		{2, "אמת&nbsp;[sound:emet.mp3]\x1ftruth", 2},
		{3, "\x1fempty", 1},
	}
	for _, n := range notes {
		_, err := db.Exec(`INSERT INTO notes VALUES (?, ?, 100, 0, 0, '', ?, '', 0, 0, '')`, n.id, "g", n.flds)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO cards VALUES (?, ?, ?, 0)`, n.id*10, n.id, n.deck)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	apkg := filepath.Join(dir, "deck.apkg")
	out, err := os.Create(apkg)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	w, err := zw.Create("collection.anki2")
	require.NoError(t, err)
	in, err := os.Open(dbPath)
	require.NoError(t, err)
	_, err = io.Copy(w, in)
	require.NoError(t, err)
	in.Close()
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return apkg
}

func TestFieldValues(t *testing.T) {
	pkg, err := OpenPackage(buildPackage(t))
	require.NoError(t, err)
	defer pkg.Close()

	assert.Len(t, pkg.Notes, 3)
	assert.Equal(t, []string{"English", "Hebrew"}, pkg.FieldNames())

	values, err := pkg.FieldValues("hebrew", "")
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "שָׁלוֹם", values[0].Text)
	assert.Equal(t, "אמת", values[1].Text)

	values, err = pkg.FieldValues("English", "hebrew")
	require.NoError(t, err)
	assert.Len(t, values, 2, "subdecks match their parent")

	values, err = pkg.FieldValues("English", "Default")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "empty", values[0].Text)

	_, err = pkg.FieldValues("Greek", "")
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, pkg.Summary(), "Hebrew::Torah")
}

func TestAnnotateAndSave(t *testing.T) {
	pkg, err := OpenPackage(buildPackage(t))
	require.NoError(t, err)
	defer pkg.Close()

	assert.Equal(t, 1, pkg.AddField("Hebrew", "Gematria"))
	assert.Equal(t, 0, pkg.AddField("Hebrew", "Gematria"), "already present")
	require.NoError(t, pkg.SetField(pkg.NoteByID(1), "Gematria", "376"))
	assert.True(t, errors.IsNotFound(pkg.SetField(pkg.NoteByID(1), "Nope", "1")))

	out := filepath.Join(t.TempDir(), "out.apkg")
	require.NoError(t, pkg.SaveAs(out))

	again, err := OpenPackage(out)
	require.NoError(t, err)
	defer again.Close()

	values, err := again.FieldValues("Gematria", "")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "376", values[0].Text)
	assert.Contains(t, string(again.Models[100].raw["tmpls"]), "Card 1", "unknown model keys survive")
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "a b", StripHTML("<div>a</div><br/>b"))
	assert.Equal(t, "x & y", StripHTML("x &amp; y"))
	assert.Equal(t, "", StripHTML("[sound:a.mp3]"))
}

func TestOpenPackageErrors(t *testing.T) {
	_, err := OpenPackage(filepath.Join(t.TempDir(), "missing.apkg"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.apkg")
	f, err := os.Create(empty)
	require.NoError(t, err)
	require.NoError(t, zip.NewWriter(f).Close())
	require.NoError(t, f.Close())
	_, err = OpenPackage(empty)
	assert.True(t, errors.IsInvalidArgument(err))
}
