package gematria

// script holds the per-language data shared by all of a language's methods.
type script struct {
	lang     Language
	alphabet []rune // canonical order, base forms only
	standard LetterTable
	aliases  map[rune]rune   // alternate forms (finals, ς) -> base letter
	names    map[rune]string // spelled-out letter names
	foldCase bool
}

var scripts = map[Language]*script{}

func registerScript(s *script) *script {
	scripts[s.lang] = s
	return s
}

// base maps an alternate letter form to its base letter.
func (s *script) base(r rune) rune {
	if b, ok := s.aliases[r]; ok {
		return b
	}
	return r
}

// withAliases copies t and gives every alias the value of its base letter,
// unless t already assigns the alias its own value.
func withAliases(t LetterTable, aliases map[rune]rune) LetterTable {
	out := make(LetterTable, len(t)+len(aliases))
	for r, v := range t {
		out[r] = v
	}
	for alias, base := range aliases {
		if _, ok := out[alias]; ok {
			continue
		}
		if v, ok := t[base]; ok {
			out[alias] = v
		}
	}
	return out
}

func ordinalTable(alphabet []rune) LetterTable {
	t := make(LetterTable, len(alphabet))
	for i, r := range alphabet {
		t[r] = i + 1
	}
	return t
}

func reverseOrdinalTable(alphabet []rune) LetterTable {
	t := make(LetterTable, len(alphabet))
	n := len(alphabet)
	for i, r := range alphabet {
		t[r] = n - i
	}
	return t
}

// mapTable applies f to every value of t.
func mapTable(t LetterTable, f func(int) int) LetterTable {
	out := make(LetterTable, len(t))
	for r, v := range t {
		out[r] = f(v)
	}
	return out
}

// cumulativeTable gives each letter the sum of the values of every letter up
// to and including it in alphabet order (Mispar Kidmi).
func cumulativeTable(alphabet []rune, t LetterTable) LetterTable {
	out := make(LetterTable, len(alphabet))
	sum := 0
	for _, r := range alphabet {
		sum += t[r]
		out[r] = sum
	}
	return out
}

// dropZeros removes trailing zeros: 400 -> 4, 30 -> 3 (Mispar Katan).
func dropZeros(v int) int {
	for v >= 10 && v%10 == 0 {
		v /= 10
	}
	return v
}

// mirrorSubstitution swaps the first letter with the last, the second with
// the second-to-last and so on (Atbash).
func mirrorSubstitution(alphabet []rune) map[rune]rune {
	s := make(map[rune]rune, len(alphabet))
	n := len(alphabet)
	for i, r := range alphabet {
		s[r] = alphabet[n-1-i]
	}
	return s
}

// halvesSubstitution swaps each letter of the first half with the letter at
// the same position in the second half (Albam).
func halvesSubstitution(alphabet []rune) map[rune]rune {
	s := make(map[rune]rune, len(alphabet))
	half := len(alphabet) / 2
	for i := 0; i < half; i++ {
		a, b := alphabet[i], alphabet[i+half]
		s[a] = b
		s[b] = a
	}
	return s
}

// splitMirrorSubstitution mirrors each half of the alphabet independently (Achbi).
func splitMirrorSubstitution(alphabet []rune) map[rune]rune {
	half := len(alphabet) / 2
	s := mirrorSubstitution(alphabet[:half])
	for r, to := range mirrorSubstitution(alphabet[half:]) {
		s[r] = to
	}
	return s
}

// shiftSubstitution replaces each letter with the one k places later,
// wrapping around (Avgad for k=1).
func shiftSubstitution(alphabet []rune, k int) map[rune]rune {
	s := make(map[rune]rune, len(alphabet))
	n := len(alphabet)
	for i, r := range alphabet {
		s[r] = alphabet[((i+k)%n+n)%n]
	}
	return s
}

// TriangularNumber returns 1+2+...+n.
func TriangularNumber(n int) int {
	return n * (n + 1) / 2
}

// Reduce returns the digital root of n (0 stays 0).
func Reduce(n int) int {
	if n < 0 {
		n = -n
	}
	for n >= 10 {
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}
