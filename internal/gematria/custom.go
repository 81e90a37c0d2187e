package gematria

import (
	"sort"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/f3rmion/gematria/internal/errors"
)

// CustomCipher is a user-defined letter table. It is evaluated with the same
// aggregation rules as the built-in methods.
type CustomCipher struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Language      Language          `json:"language"`
	Description   string            `json:"description,omitempty"`
	Values        map[string]int    `json:"letter_values"`
	Aggregation   Aggregation       `json:"aggregation,omitempty"`
	Substitution  map[string]string `json:"substitution,omitempty"`
	CaseSensitive bool              `json:"case_sensitive"`
	UseFinalForms bool              `json:"use_final_forms"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Validate checks the cipher for structural problems.
func (c *CustomCipher) Validate() error {
	if c.Name == "" {
		return errors.InvalidArgumentf("cipher name is required")
	}
	if _, ok := scripts[c.Language]; !ok {
		return errors.InvalidArgumentf("cipher %q: unknown language %q", c.Name, c.Language)
	}
	if len(c.Values) == 0 {
		return errors.InvalidArgumentf("cipher %q: no letter values", c.Name)
	}
	for k, v := range c.Values {
		if utf8.RuneCountInString(k) != 1 {
			return errors.InvalidArgumentf("cipher %q: key %q must be a single letter", c.Name, k)
		}
		if v < 0 {
			return errors.InvalidArgumentf("cipher %q: letter %q has negative value %d", c.Name, k, v)
		}
	}
	if c.Aggregation != "" && !c.Aggregation.Valid() {
		return errors.InvalidArgumentf("cipher %q: unknown aggregation %q", c.Name, c.Aggregation)
	}
	if len(c.Substitution) > 0 && c.Aggregation != AggSubstitution {
		return errors.InvalidArgumentf("cipher %q: substitution map requires aggregation %q", c.Name, AggSubstitution)
	}
	if !c.CaseSensitive {
		folded := make(map[rune]string, len(c.Values))
		for k, v := range c.Values {
			r, _ := utf8.DecodeRuneInString(k)
			lr := unicode.ToLower(r)
			if prev, ok := folded[lr]; ok && c.Values[prev] != v {
				return errors.InvalidArgumentf("cipher %q: letters %q and %q differ only by case; enable case sensitivity", c.Name, prev, k)
			}
			folded[lr] = k
		}
	}
	for from, to := range c.Substitution {
		if utf8.RuneCountInString(from) != 1 || utf8.RuneCountInString(to) != 1 {
			return errors.InvalidArgumentf("cipher %q: substitution %q->%q must map single letters", c.Name, from, to)
		}
	}
	return nil
}

// Calculate returns the value of text under the cipher.
func (c *CustomCipher) Calculate(text string) int {
	s := scripts[c.Language]
	if s == nil {
		s = &script{lang: c.Language}
	}

	fold := func(r rune) rune {
		if c.CaseSensitive {
			return r
		}
		return unicode.ToLower(r)
	}
	collapseFinals := c.Language == Hebrew && !c.UseFinalForms

	table := make(LetterTable, len(c.Values))
	for k, v := range c.Values {
		r, _ := utf8.DecodeRuneInString(k)
		table[fold(r)] = v
	}
	var sub map[rune]rune
	if len(c.Substitution) > 0 {
		sub = make(map[rune]rune, len(c.Substitution))
		for from, to := range c.Substitution {
			f, _ := utf8.DecodeRuneInString(from)
			t, _ := utf8.DecodeRuneInString(to)
			sub[fold(f)] = fold(t)
		}
	}

	rs := prepare(text, !c.CaseSensitive)
	nameTable := table
	if collapseFinals {
		for i, r := range rs {
			if b, ok := HebrewFinals[r]; ok {
				rs[i] = b
			}
		}
		// Finals inside spelled letter names count as their base letters.
		nameTable = make(LetterTable, len(table)+len(HebrewFinals))
		for r, v := range table {
			nameTable[r] = v
		}
		for final, base := range HebrewFinals {
			if v, ok := table[base]; ok {
				nameTable[final] = v
			}
		}
	}

	agg := c.Aggregation
	if agg == "" {
		agg = AggSum
	}
	e := evaluation{
		table:        table,
		substitution: sub,
		nameTable:    nameTable,
		aliases:      s.aliases,
		names:        s.names,
	}
	return aggregate(agg, rs, e)
}

// CalculateCustom returns the value of text under a custom cipher.
func CalculateCustom(text string, c *CustomCipher) int {
	return c.Calculate(text)
}

// Letters returns the cipher's letters sorted by value, then by letter.
func (c *CustomCipher) Letters() []string {
	keys := make([]string, 0, len(c.Values))
	for k := range c.Values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c.Values[keys[i]] != c.Values[keys[j]] {
			return c.Values[keys[i]] < c.Values[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// NewCustomFromMethod creates a cipher pre-filled with a built-in method's
// table, as a starting point for editing. Substitution maps and total
// post-processing (digital root, squaring) are not carried over.
func NewCustomFromMethod(name string, id Method) (*CustomCipher, error) {
	m, err := LookupMethod(id)
	if err != nil {
		return nil, err
	}
	values := make(map[string]int, len(m.table))
	for r, v := range m.table {
		values[string(r)] = v
	}
	c := &CustomCipher{
		Name:        name,
		Language:    m.Language,
		Description: "Based on " + m.Name,
		Values:      values,
		Aggregation: AggSum,
	}
	if m.Aggregation != AggSubstitution {
		c.Aggregation = m.Aggregation
	}
	if m.Language == Hebrew {
		for final := range HebrewFinals {
			if m.table[final] != m.table[HebrewFinals[final]] {
				c.UseFinalForms = true
				break
			}
		}
	}
	return c, nil
}

// Alphabet returns the base letters of lang in canonical order.
func Alphabet(lang Language) []rune {
	s, ok := scripts[lang]
	if !ok {
		return nil
	}
	return append([]rune(nil), s.alphabet...)
}
