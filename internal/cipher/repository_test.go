package cipher

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(filepath.Join(t.TempDir(), "ciphers"), zaptest.NewLogger(t).Sugar())
}

func sample() *gematria.CustomCipher {
	return &gematria.CustomCipher{
		Name:     "Simple",
		Language: gematria.English,
		Values:   map[string]int{"a": 1, "b": 2, "c": 3},
	}
}

func TestListMissingDirectoryIsEmpty(t *testing.T) {
	r := newRepo(t)
	got, err := r.List()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveGetDelete(t *testing.T) {
	r := newRepo(t)
	c := sample()
	require.NoError(t, r.Save(c))
	require.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.FileExists(t, filepath.Join(r.Dir(), c.ID+".json"))

	got, err := r.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, 6, got.Calculate("abc"))

	byName, err := r.Get("simple")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byName.ID)

	created := c.CreatedAt
	c.Description = "edited"
	require.NoError(t, r.Save(c))
	got, err = r.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Description)
	assert.True(t, got.CreatedAt.Equal(created))

	require.NoError(t, r.Delete(c.ID))
	_, err = r.Get(c.ID)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsNotFound(r.Delete(c.ID)))
}

func TestSaveRejectsInvalid(t *testing.T) {
	r := newRepo(t)
	c := sample()
	c.Values["d"] = -1
	err := r.Save(c)
	assert.True(t, errors.IsInvalidArgument(err))

	c = sample()
	c.ID = "../escape"
	assert.True(t, errors.IsInvalidArgument(r.Save(c)))
}

func TestListSkipsBrokenFiles(t *testing.T) {
	r := newRepo(t)
	b := sample()
	b.Name = "beta"
	a := sample()
	a.Name = "Alpha"
	require.NoError(t, r.Save(b))
	require.NoError(t, r.Save(a))

	require.NoError(t, os.WriteFile(filepath.Join(r.Dir(), "broken.json"), []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(r.Dir(), "invalid.json"), []byte(`{"name":"x","language":"hebrew"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(r.Dir(), "notes.txt"), []byte("ignored"), 0644))

	got, err := r.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "beta", got[1].Name)
}

func TestImportExport(t *testing.T) {
	r := newRepo(t)
	c := sample()
	require.NoError(t, r.Save(c))

	var buf bytes.Buffer
	require.NoError(t, r.Export(c.ID, &buf))
	assert.Contains(t, buf.String(), `"letter_values"`)

	imported, err := r.Import(&buf)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, imported.ID, "import never overwrites")
	assert.Equal(t, c.Values, imported.Values)

	all, err := r.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = r.Import(strings.NewReader("nope"))
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestWatchReportsChanges(t *testing.T) {
	r := newRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := Watch(ctx, r.Dir())
	require.NoError(t, err)

	require.NoError(t, r.Save(sample()))

	select {
	case ev := <-events:
		assert.Equal(t, ".json", filepath.Ext(ev.Path))
	case <-time.After(5 * time.Second):
		t.Fatal("no watch event")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}
