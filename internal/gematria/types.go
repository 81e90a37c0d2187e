// Package gematria turns text into numbers using letter-value tables for
// Hebrew, Greek, English, Coptic and Arabic.
//
// Every built-in method is a (table, aggregation) pair registered at init.
// Tables are never mutated after registration, so all functions in this
// package are safe for concurrent use.
package gematria

import (
	"strings"
	"unicode"

	"github.com/f3rmion/gematria/internal/errors"
)

// Language identifies the script a method operates on.
type Language string

const (
	Hebrew  Language = "hebrew"
	Greek   Language = "greek"
	English Language = "english"
	Coptic  Language = "coptic"
	Arabic  Language = "arabic"
)

// Languages lists every supported language in display order.
var Languages = []Language{Hebrew, Greek, English, Coptic, Arabic}

// ParseLanguage resolves a language name or common alias.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hebrew", "he", "heb":
		return Hebrew, nil
	case "greek", "el", "gr", "grc":
		return Greek, nil
	case "english", "en", "eng", "latin":
		return English, nil
	case "coptic", "cop":
		return Coptic, nil
	case "arabic", "ar", "ara":
		return Arabic, nil
	}
	return "", errors.InvalidArgumentf("unknown language %q", s)
}

// Title returns the capitalized language name.
func (l Language) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// Aggregation is how per-letter values are combined into a total.
type Aggregation string

const (
	AggSum          Aggregation = "sum"          // T[c]
	AggSquared      Aggregation = "squared"      // T[c]^2
	AggCubed        Aggregation = "cubed"        // T[c]^3
	AggSubstitution Aggregation = "substitution" // S(c) then T
	AggBuilding     Aggregation = "building"     // running total of T
	AggTriangular   Aggregation = "triangular"   // T[c]*(T[c]+1)/2
	AggNameSpelling Aggregation = "name"         // value of the letter's spelled name
	AggHidden       Aggregation = "hidden"       // name value minus T[c]
	AggFaces        Aggregation = "faces"        // first letter by name, rest T
	AggPositional   Aggregation = "positional"   // T[c] * position
	AggAdditive     Aggregation = "additive"     // sum plus letter count
)

// Aggregations lists every aggregation, in the order shown to users.
var Aggregations = []Aggregation{
	AggSum, AggSquared, AggCubed, AggSubstitution, AggBuilding, AggTriangular,
	AggNameSpelling, AggHidden, AggFaces, AggPositional, AggAdditive,
}

// Valid reports whether a is a known aggregation.
func (a Aggregation) Valid() bool {
	for _, known := range Aggregations {
		if a == known {
			return true
		}
	}
	return false
}

// Post is a transformation applied to the aggregated total.
type Post int

const (
	PostNone        Post = iota
	PostDigitalRoot      // reduce the total to a single digit
	PostSquareTotal      // square the total
)

// LetterTable maps a letter to its numeric value.
type LetterTable map[rune]int

// Method identifies a built-in calculation method, e.g. "hebrew-standard".
type Method string

// MethodInfo describes a registered built-in method.
type MethodInfo struct {
	ID          Method
	Name        string
	Language    Language
	Aggregation Aggregation
	Post        Post
	Description string

	table        LetterTable
	substitution map[rune]rune
	nameTable    LetterTable
}

// Value returns the table value of a single letter under this method, or
// false if the method does not assign the letter a value. Case is folded for
// scripts that ignore it.
func (m *MethodInfo) Value(r rune) (int, bool) {
	if s := scripts[m.Language]; s != nil && s.foldCase {
		r = unicode.ToLower(r)
	}
	v, ok := m.table[r]
	return v, ok
}

// Result is the value of a text under one method.
type Result struct {
	Method   Method
	Name     string
	Language Language
	Value    int
}
