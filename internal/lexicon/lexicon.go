// Package lexicon holds word lists used to find words of equal value.
package lexicon

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
)

// Entry is one word of a lexicon file.
type Entry struct {
	Word     string            `json:"word"`
	Language gematria.Language `json:"language,omitempty"`
	Meaning  string            `json:"meaning,omitempty"`
	Source   string            `json:"-"`
}

// Lexicon holds entries and lazily built value indexes, one per method.
// It is safe for concurrent use.
type Lexicon struct {
	mu      sync.Mutex
	entries []*Entry
	seen    map[string]bool
	indexes map[string]map[int][]*Entry
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		seen:    make(map[string]bool),
		indexes: make(map[string]map[int][]*Entry),
	}
}

// LoadFile reads a JSONL word list. Each line is an object with word,
// language and meaning; malformed lines are skipped. Returns the number of
// entries added.
func (l *Lexicon) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "opening lexicon file")
	}
	defer f.Close()
	return l.load(f, path)
}

// Load reads a JSONL word list from r.
func (l *Lexicon) Load(r io.Reader) (int, error) {
	return l.load(r, "")
}

func (l *Lexicon) load(r io.Reader, source string) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var batch []*Entry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		e.Source = source
		batch = append(batch, &e)
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.Wrap(err, "reading lexicon")
	}
	return l.Add(batch...), nil
}

// Add inserts entries, skipping empty words and exact duplicates. A missing
// language is detected from the word's script. Returns the number added.
func (l *Lexicon) Add(entries ...*Entry) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := 0
	for _, e := range entries {
		e.Word = strings.TrimSpace(e.Word)
		if e.Word == "" {
			continue
		}
		if e.Language == "" {
			lang, ok := gematria.DetectLanguage(e.Word)
			if !ok {
				continue
			}
			e.Language = lang
		} else if lang, err := gematria.ParseLanguage(string(e.Language)); err == nil {
			e.Language = lang
		} else {
			continue
		}
		key := string(e.Language) + "\x00" + e.Word
		if l.seen[key] {
			continue
		}
		l.seen[key] = true
		l.entries = append(l.entries, e)
		added++
	}
	if added > 0 {
		l.indexes = make(map[string]map[int][]*Entry)
	}
	return added
}

// Size returns the number of entries.
func (l *Lexicon) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Matches returns the entries of m's language whose value under m equals
// value, sorted by word.
func (l *Lexicon) Matches(m *gematria.MethodInfo, value int) []*Entry {
	return l.MatchesFunc(string(m.ID), m.Language, m.Calculate, value)
}

// MatchesCustom is Matches for a custom cipher.
func (l *Lexicon) MatchesCustom(c *gematria.CustomCipher, value int) []*Entry {
	return l.MatchesFunc("custom:"+c.ID, c.Language, c.Calculate, value)
}

// MatchesFunc indexes entries of lang under key with calc on first use.
func (l *Lexicon) MatchesFunc(key string, lang gematria.Language, calc func(string) int, value int) []*Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.indexes[key]
	if !ok {
		idx = make(map[int][]*Entry)
		for _, e := range l.entries {
			if e.Language != lang {
				continue
			}
			v := calc(e.Word)
			idx[v] = append(idx[v], e)
		}
		for _, es := range idx {
			sort.Slice(es, func(i, j int) bool { return es[i].Word < es[j].Word })
		}
		l.indexes[key] = idx
	}
	return append([]*Entry(nil), idx[value]...)
}
