package store

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/f3rmion/gematria/internal/errors"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// Deterministic, strictly increasing timestamps.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return s
}

func save(t *testing.T, s *Store, text, method string, result int) *CalculationResult {
	t.Helper()
	c := &CalculationResult{Text: text, Method: method, Language: "hebrew", Result: result}
	require.NoError(t, s.Save(context.Background(), c))
	return c
}

func TestOpenConfiguresDatabase(t *testing.T) {
	s := openTest(t)

	var journal string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journal))
	assert.Equal(t, "wal", journal)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var busy int
	require.NoError(t, s.db.QueryRow("PRAGMA busy_timeout").Scan(&busy))
	assert.Equal(t, BusyTimeoutMS, busy)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTest(t)
	require.NoError(t, Migrate(s.db, nil))

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Equal(t, 3, n)
}

func TestSaveAndGet(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	c := save(t, s, "שלום", "hebrew-standard", 376)
	require.NotEmpty(t, c.ID)

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "שלום", got.Text)
	assert.Equal(t, 376, got.Result)
	assert.False(t, got.Favorite)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))

	_, err = s.Get(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))

	assert.True(t, errors.IsInvalidArgument(s.Save(ctx, &CalculationResult{Method: "x"})))
	assert.True(t, errors.IsInvalidArgument(s.Save(ctx, &CalculationResult{Text: "x"})))
	assert.True(t, errors.IsConflict(s.Save(ctx, &CalculationResult{ID: c.ID, Text: "x", Method: "y"})))
}

func TestListNewestFirstWithSubsecondTimes(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{base, base.Add(100 * time.Millisecond), base.Add(120 * time.Millisecond), base.Add(time.Second)}
	i := 0
	s.now = func() time.Time {
		ts := stamps[i]
		i++
		return ts
	}
	whole := save(t, s, "א", "hebrew-standard", 1)
	older := save(t, s, "ב", "hebrew-standard", 2)
	newer := save(t, s, "ג", "hebrew-standard", 3)
	latest := save(t, s, "ד", "hebrew-standard", 4)

	got, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, []string{latest.ID, newer.ID, older.ID, whole.ID},
		[]string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
	assert.True(t, older.CreatedAt.Equal(got[2].CreatedAt))
}

func TestFavoriteNotesDelete(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	c := save(t, s, "אמת", "hebrew-standard", 441)

	require.NoError(t, s.SetFavorite(ctx, c.ID, true))
	require.NoError(t, s.UpdateNotes(ctx, c.ID, "truth"))
	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)
	assert.Equal(t, "truth", got.Notes)

	require.NoError(t, s.Delete(ctx, c.ID))
	assert.True(t, errors.IsNotFound(s.Delete(ctx, c.ID)))
	assert.True(t, errors.IsNotFound(s.SetFavorite(ctx, c.ID, false)))
	assert.True(t, errors.IsNotFound(s.UpdateNotes(ctx, c.ID, "")))
}

func TestListFilters(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	a := save(t, s, "שלום", "hebrew-standard", 376)
	b := save(t, s, "עשו", "hebrew-standard", 376)
	c := save(t, s, "λογος", "greek-standard", 373)
	require.NoError(t, s.SetFavorite(ctx, b.ID, true))
	require.NoError(t, s.UpdateNotes(ctx, c.ID, "100% word_of_god"))

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, c.ID, all[0].ID, "newest first")

	byMethod, err := s.List(ctx, Filter{Method: "hebrew-standard"})
	require.NoError(t, err)
	assert.Len(t, byMethod, 2)

	favs, err := s.List(ctx, Filter{FavoritesOnly: true})
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, b.ID, favs[0].ID)

	found, err := s.FindByValue(ctx, 376)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids(found))

	search, err := s.List(ctx, Filter{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, ids(search))

	search, err = s.List(ctx, Filter{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, ids(search), "wildcards are literal")

	limited, err := s.List(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestTagsAreSoftReferences(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	tag := &Tag{Name: "Peace", Color: "#00AA00"}
	require.NoError(t, s.CreateTag(ctx, tag))
	assert.Equal(t, "#00aa00", tag.Color)

	c := save(t, s, "שלום", "hebrew-standard", 376)
	require.NoError(t, s.AddTag(ctx, c.ID, tag.ID))
	require.NoError(t, s.AddTag(ctx, c.ID, tag.ID), "adding twice is a no-op")

	tagged, err := s.List(ctx, Filter{TagID: tag.ID})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, []string{tag.ID}, tagged[0].Tags)

	require.NoError(t, s.DeleteTag(ctx, tag.ID))
	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err, "calculation survives tag deletion")
	assert.Empty(t, got.Tags)

	assert.True(t, errors.IsNotFound(s.AddTag(ctx, c.ID, "no-such-tag")))
}

func TestRemoveTag(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	tag := &Tag{Name: "x"}
	require.NoError(t, s.CreateTag(ctx, tag))
	c := &CalculationResult{Text: "a", Method: "english-ordinal", Result: 1, Tags: []string{tag.ID}}
	require.NoError(t, s.Save(ctx, c))

	require.NoError(t, s.RemoveTag(ctx, c.ID, tag.ID))
	assert.True(t, errors.IsNotFound(s.RemoveTag(ctx, c.ID, tag.ID)))

	_, err := s.GetTag(ctx, tag.ID)
	require.NoError(t, err, "tag survives unlinking")
}

func TestTagCRUD(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	tag := &Tag{Name: "  Names  ", Description: "divine names"}
	require.NoError(t, s.CreateTag(ctx, tag))
	assert.Equal(t, "Names", tag.Name)
	assert.Equal(t, DefaultTagColor, tag.Color)

	byName, err := s.GetTagByName(ctx, "names")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, byName.ID)

	resolved, err := s.ResolveTag(ctx, "NAMES")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, resolved.ID)

	assert.True(t, errors.IsConflict(s.CreateTag(ctx, &Tag{Name: "NAMES"})))
	assert.True(t, errors.IsInvalidArgument(s.CreateTag(ctx, &Tag{Name: " "})))
	assert.True(t, errors.IsInvalidArgument(s.CreateTag(ctx, &Tag{Name: "c", Color: "red"})))

	other := &Tag{Name: "Other"}
	require.NoError(t, s.CreateTag(ctx, other))
	other.Name = "names"
	assert.True(t, errors.IsConflict(s.UpdateTag(ctx, other)))

	tag.Color = "#123456"
	require.NoError(t, s.UpdateTag(ctx, tag))
	got, err := s.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "#123456", got.Color)

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	assert.True(t, errors.IsNotFound(s.UpdateTag(ctx, &Tag{ID: "missing", Name: "zzz"})))
	assert.True(t, errors.IsNotFound(s.DeleteTag(ctx, "missing")))
	_, err = s.GetTag(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestExportImport(t *testing.T) {
	src := openTest(t)
	ctx := context.Background()

	tag := &Tag{Name: "peace"}
	require.NoError(t, src.CreateTag(ctx, tag))
	c := &CalculationResult{Text: "שלום", Method: "hebrew-standard", Result: 376, Notes: "n", Favorite: true, Tags: []string{tag.ID}}
	require.NoError(t, src.Save(ctx, c))
	save(t, src, "אמת", "hebrew-standard", 441)

	var buf bytes.Buffer
	require.NoError(t, src.Export(ctx, &buf))

	dst := openTest(t)
	existing := &Tag{Name: "Peace"}
	require.NoError(t, dst.CreateTag(ctx, existing))

	data := buf.String()
	stats, err := dst.Import(ctx, strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ImportStats{TagsMerged: 1, CalculationsImported: 2}, stats)

	got, err := dst.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)
	assert.Equal(t, "n", got.Notes)
	assert.Equal(t, []string{existing.ID}, got.Tags, "links follow the merged tag")

	again, err := dst.Import(ctx, strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, again.CalculationsSkipped)

	_, err = dst.Import(ctx, strings.NewReader(`{"version": 99}`))
	assert.True(t, errors.IsInvalidArgument(err))
}

func ids(cs []*CalculationResult) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
