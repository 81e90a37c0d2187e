package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gematria/internal/gematria"
)

const words = `{"word":"שלום","language":"hebrew","meaning":"peace"}
{"word":"עשו","meaning":"Esau"}
not json at all
{"word":"","language":"hebrew"}
{"word":"אמת","language":"he","meaning":"truth"}
{"word":"שלום","language":"hebrew","meaning":"duplicate"}
{"word":"λογος","meaning":"word"}
{"word":"x","language":"klingon"}
`

func method(t *testing.T, id gematria.Method) *gematria.MethodInfo {
	t.Helper()
	m, err := gematria.LookupMethod(id)
	require.NoError(t, err)
	return m
}

func TestLoadSkipsBadLines(t *testing.T) {
	l := New()
	n, err := l.Load(strings.NewReader(words))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, l.Size())
}

func TestMatches(t *testing.T) {
	l := New()
	_, err := l.Load(strings.NewReader(words))
	require.NoError(t, err)

	got := l.Matches(method(t, gematria.HebrewStandard), 376)
	require.Len(t, got, 2)
	assert.Equal(t, "עשו", got[0].Word)
	assert.Equal(t, "שלום", got[1].Word)
	assert.Equal(t, "peace", got[1].Meaning)

	assert.Empty(t, l.Matches(method(t, gematria.HebrewStandard), 1))
	assert.Len(t, l.Matches(method(t, gematria.GreekStandard), 373), 1)
}

func TestAddInvalidatesIndexes(t *testing.T) {
	l := New()
	m := method(t, gematria.HebrewStandard)
	assert.Empty(t, l.Matches(m, 441))

	l.Add(&Entry{Word: "אמת"})
	assert.Len(t, l.Matches(m, 441), 1)
}

func TestMatchesCustom(t *testing.T) {
	l := New()
	l.Add(&Entry{Word: "abc", Language: gematria.English}, &Entry{Word: "cab"})
	c := &gematria.CustomCipher{ID: "c1", Name: "abc", Language: gematria.English,
		Values: map[string]int{"a": 1, "b": 2, "c": 3}, Aggregation: gematria.AggPositional}
	got := l.MatchesCustom(c, 14)
	require.Len(t, got, 1)
	assert.Equal(t, "abc", got[0].Word)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(words), 0644))

	l := New()
	n, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, path, l.Matches(method(t, gematria.HebrewStandard), 441)[0].Source)

	_, err = l.LoadFile(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestConcurrentMatches(t *testing.T) {
	l := New()
	_, err := l.Load(strings.NewReader(words))
	require.NoError(t, err)
	m := method(t, gematria.HebrewStandard)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, l.Matches(m, 376), 2)
		}()
	}
	wg.Wait()
}
