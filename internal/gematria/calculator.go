package gematria

import (
	"sort"
	"strings"
	"unicode"

	"github.com/f3rmion/gematria/internal/errors"
)

var (
	registry   = map[Method]*MethodInfo{}
	byLanguage = map[Language][]*MethodInfo{}
)

// register adds a built-in method for script s. The name table defaults to
// the script's standard table.
func register(s *script, m MethodInfo) {
	if _, dup := registry[m.ID]; dup {
		panic("gematria: duplicate method " + string(m.ID))
	}
	m.Language = s.lang
	if m.Aggregation == "" {
		m.Aggregation = AggSum
	}
	if m.table == nil {
		m.table = s.standard
	}
	if m.nameTable == nil {
		m.nameTable = s.standard
	}
	info := &m
	registry[m.ID] = info
	byLanguage[s.lang] = append(byLanguage[s.lang], info)
}

// LookupMethod returns the registered method with the given identifier.
func LookupMethod(id Method) (*MethodInfo, error) {
	m, ok := registry[Method(strings.ToLower(strings.TrimSpace(string(id))))]
	if !ok {
		return nil, errors.WithHint(
			errors.InvalidArgumentf("unsupported calculation method %q", id),
			"run 'gem methods' to list available methods",
		)
	}
	return m, nil
}

// Methods returns every built-in method grouped by language.
func Methods() []*MethodInfo {
	var out []*MethodInfo
	for _, lang := range Languages {
		out = append(out, byLanguage[lang]...)
	}
	return out
}

// MethodsFor returns the built-in methods of one language in display order.
func MethodsFor(lang Language) []*MethodInfo {
	return append([]*MethodInfo(nil), byLanguage[lang]...)
}

// Calculate returns the value of text under the given built-in method.
// An unknown method is the only error; unmatched characters are skipped.
func Calculate(text string, id Method) (int, error) {
	m, err := LookupMethod(id)
	if err != nil {
		return 0, err
	}
	return m.Calculate(text), nil
}

// Calculate returns the value of text under m.
func (m *MethodInfo) Calculate(text string) int {
	s := scripts[m.Language]
	e := evaluation{
		table:        m.table,
		substitution: m.substitution,
		nameTable:    m.nameTable,
		aliases:      s.aliases,
		names:        s.names,
	}
	total := aggregate(m.Aggregation, prepare(text, s.foldCase), e)
	return applyPost(m.Post, total)
}

// CalculateAll evaluates text under every method of lang.
func CalculateAll(text string, lang Language) []Result {
	methods := byLanguage[lang]
	results := make([]Result, 0, len(methods))
	for _, m := range methods {
		results = append(results, Result{
			Method:   m.ID,
			Name:     m.Name,
			Language: m.Language,
			Value:    m.Calculate(text),
		})
	}
	return results
}

// Substitute applies a substitution method's letter mapping to text and
// returns the substituted string. Combining marks are stripped, letter case is
// kept, and final forms are replaced by the image of their base letter, so
// the result is always written in base forms. Characters outside the mapping
// are kept.
func Substitute(text string, id Method) (string, error) {
	m, err := LookupMethod(id)
	if err != nil {
		return "", err
	}
	if m.Aggregation != AggSubstitution {
		return "", errors.InvalidArgumentf("method %s is not a substitution cipher", id)
	}
	s := scripts[m.Language]
	var b strings.Builder
	for _, r := range Normalize(text) {
		if !s.foldCase || !unicode.IsUpper(r) {
			b.WriteRune(substitute(r, m.substitution, s.aliases))
			continue
		}
		b.WriteRune(unicode.ToUpper(substitute(unicode.ToLower(r), m.substitution, s.aliases)))
	}
	return b.String(), nil
}

// DetectLanguage returns the language whose script has the most letters in
// text. It reports false when no supported letters are present.
func DetectLanguage(text string) (Language, bool) {
	counts := make(map[Language]int)
	for _, r := range Normalize(text) {
		switch {
		case unicode.Is(unicode.Hebrew, r):
			counts[Hebrew]++
		case unicode.Is(unicode.Coptic, r):
			counts[Coptic]++
		case unicode.Is(unicode.Greek, r):
			counts[Greek]++
		case unicode.Is(unicode.Arabic, r):
			counts[Arabic]++
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			counts[English]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}
	langs := append([]Language(nil), Languages...)
	sort.SliceStable(langs, func(i, j int) bool {
		return counts[langs[i]] > counts[langs[j]]
	})
	return langs[0], true
}

// evaluation carries the data one aggregation needs.
type evaluation struct {
	table        LetterTable
	substitution map[rune]rune
	nameTable    LetterTable
	aliases      map[rune]rune
	names        map[rune]string
}

func (e evaluation) nameValue(r rune) (int, bool) {
	if b, ok := e.aliases[r]; ok {
		r = b
	}
	name, ok := e.names[r]
	if !ok {
		return 0, false
	}
	sum := 0
	for _, c := range name {
		sum += e.nameTable[c]
	}
	return sum, true
}

func substitute(r rune, sub map[rune]rune, aliases map[rune]rune) rune {
	if to, ok := sub[r]; ok {
		return to
	}
	if b, ok := aliases[r]; ok {
		if to, ok := sub[b]; ok {
			return to
		}
	}
	return r
}

func aggregate(agg Aggregation, rs []rune, e evaluation) int {
	total := 0
	switch agg {
	case AggSubstitution:
		for _, r := range rs {
			total += e.table[substitute(r, e.substitution, e.aliases)]
		}
		return total
	case AggNameSpelling:
		for _, r := range rs {
			if v, ok := e.nameValue(r); ok {
				total += v
			}
		}
		return total
	case AggHidden:
		for _, r := range rs {
			if v, ok := e.nameValue(r); ok {
				total += v - e.table[r]
			}
		}
		return total
	case AggFaces:
		first := true
		for _, r := range rs {
			if first {
				if v, ok := e.nameValue(r); ok {
					total += v
					first = false
				}
				continue
			}
			total += e.table[r]
		}
		return total
	}

	// The remaining aggregations only need the matched values in order.
	vals := make([]int, 0, len(rs))
	for _, r := range rs {
		if v, ok := e.table[r]; ok {
			vals = append(vals, v)
		}
	}

	switch agg {
	case AggSum:
		for _, v := range vals {
			total += v
		}
	case AggSquared:
		for _, v := range vals {
			total += v * v
		}
	case AggCubed:
		for _, v := range vals {
			total += v * v * v
		}
	case AggBuilding:
		running := 0
		for _, v := range vals {
			running += v
			total += running
		}
	case AggTriangular:
		for _, v := range vals {
			total += TriangularNumber(v)
		}
	case AggPositional:
		for i, v := range vals {
			total += v * (i + 1)
		}
	case AggAdditive:
		for _, v := range vals {
			total += v
		}
		total += len(vals)
	}
	return total
}

func applyPost(p Post, total int) int {
	switch p {
	case PostDigitalRoot:
		return Reduce(total)
	case PostSquareTotal:
		return total * total
	}
	return total
}
