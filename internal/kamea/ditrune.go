// Package kamea implements the ternary numerals behind the Kamea cosmic calendar.
//
// A ditrune is a six-digit base-3 numeral (000000..222222, decimal 0..728).
// Its conrune swaps every 1 and 2; the differential between the two drives
// the calendar's placement of a day on the circle.
package kamea

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/f3rmion/gematria/internal/errors"
)

// Digits is the number of trits in a ditrune.
const Digits = 6

// Max is the largest ditrune value (222222 in base 3).
const Max = 728

// Ditrune is a six-trit base-3 numeral stored as its decimal value.
type Ditrune int

// FromDecimal validates n and returns it as a ditrune.
func FromDecimal(n int) (Ditrune, error) {
	if n < 0 || n > Max {
		return 0, errors.InvalidArgumentf("ditrune value %d out of range 0..%d", n, Max)
	}
	return Ditrune(n), nil
}

// ParseTernary parses up to six base-3 digits.
func ParseTernary(s string) (Ditrune, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > Digits {
		return 0, errors.InvalidArgumentf("ditrune %q must have 1 to %d ternary digits", s, Digits)
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '2' {
			return 0, errors.InvalidArgumentf("ditrune %q is not a ternary numeral", s)
		}
		n = n*3 + int(s[i]-'0')
	}
	return FromDecimal(n)
}

// Trits returns the digits, most significant first.
func (d Ditrune) Trits() [Digits]int {
	var t [Digits]int
	n := int(d)
	for i := Digits - 1; i >= 0; i-- {
		t[i] = n % 3
		n /= 3
	}
	return t
}

func fromTrits(t [Digits]int) Ditrune {
	n := 0
	for _, v := range t {
		n = n*3 + v
	}
	return Ditrune(n)
}

// String returns the zero-padded ternary form, e.g. "012210".
func (d Ditrune) String() string {
	var b strings.Builder
	for _, v := range d.Trits() {
		b.WriteByte(byte('0' + v))
	}
	return b.String()
}

// Conrune swaps every 1 and 2 digit; 0 stays 0.
func (d Ditrune) Conrune() Ditrune {
	t := d.Trits()
	for i, v := range t {
		if v != 0 {
			t[i] = 3 - v
		}
	}
	return fromTrits(t)
}

// Reversal reads the digits right to left.
func (d Ditrune) Reversal() Ditrune {
	t := d.Trits()
	for i, j := 0, Digits-1; i < j; i, j = i+1, j-1 {
		t[i], t[j] = t[j], t[i]
	}
	return fromTrits(t)
}

// Differential is |d - conrune(d)|.
func (d Ditrune) Differential() int {
	diff := int(d) - int(d.Conrune())
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// Summary describes a ditrune and its transforms.
type Summary struct {
	Decimal      int    `json:"decimal"`
	Ternary      string `json:"ternary"`
	Conrune      int    `json:"conrune"`
	ConruneTern  string `json:"conrune_ternary"`
	Reversal     int    `json:"reversal"`
	Differential int    `json:"differential"`
}

// Summarize computes every transform of d.
func Summarize(d Ditrune) Summary {
	c := d.Conrune()
	return Summary{
		Decimal:      int(d),
		Ternary:      d.String(),
		Conrune:      int(c),
		ConruneTern:  c.String(),
		Reversal:     int(d.Reversal()),
		Differential: d.Differential(),
	}
}

// Parse accepts either a decimal value or, with a "t" prefix, a ternary
// numeral ("t012210").
func Parse(s string) (Ditrune, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "t") || strings.HasPrefix(s, "T") {
		return ParseTernary(s[1:])
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.InvalidArgumentf("%q is neither a decimal nor a t-prefixed ternary ditrune", s)
	}
	return FromDecimal(n)
}

// GoString implements fmt.GoStringer for debugging output.
func (d Ditrune) GoString() string {
	return fmt.Sprintf("kamea.Ditrune(%d /* %s */)", int(d), d.String())
}
