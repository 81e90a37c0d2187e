package gematria

// English method identifiers.
const (
	EnglishOrdinal        Method = "english-ordinal"
	EnglishReverseOrdinal Method = "english-reverse-ordinal"
	EnglishReduced        Method = "english-reduced"
	EnglishReverseReduced Method = "english-reverse-reduced"
	EnglishExtended       Method = "english-extended"
	EnglishSumerian       Method = "english-sumerian"
	EnglishTQ             Method = "english-tq"
	EnglishAtbash         Method = "english-atbash"
	EnglishSquared        Method = "english-squared"
	EnglishBuilding       Method = "english-building"
	EnglishTriangular     Method = "english-triangular"
	EnglishAdditive       Method = "english-additive"
)

var englishAlphabet = []rune("abcdefghijklmnopqrstuvwxyz")

// Trigrammaton Qabalah order: i=0, l=1, c=2, ... u=25.
var tqOrder = []rune("ilchpaxjwtogfersqkyzbmvdnu")

func init() {
	ordinal := ordinalTable(englishAlphabet)
	s := registerScript(&script{
		lang:     English,
		alphabet: englishAlphabet,
		standard: ordinal,
		foldCase: true,
	})

	pythagorean := func(v int) int { return (v-1)%9 + 1 }
	reverse := reverseOrdinalTable(englishAlphabet)

	extended := make(LetterTable, len(englishAlphabet))
	for i, r := range englishAlphabet {
		unit := i%9 + 1
		switch {
		case i < 9:
			extended[r] = unit
		case i < 18:
			extended[r] = unit * 10
		default:
			extended[r] = unit * 100
		}
	}

	tq := make(LetterTable, len(tqOrder))
	for i, r := range tqOrder {
		tq[r] = i
	}

	register(s, MethodInfo{ID: EnglishOrdinal, Name: "English Ordinal",
		Description: "a=1 through z=26."})
	register(s, MethodInfo{ID: EnglishReverseOrdinal, Name: "Reverse Ordinal",
		table: reverse, Description: "z=1 through a=26."})
	register(s, MethodInfo{ID: EnglishReduced, Name: "Full Reduction",
		table: mapTable(ordinal, pythagorean), Description: "Pythagorean values 1-9 repeating."})
	register(s, MethodInfo{ID: EnglishReverseReduced, Name: "Reverse Full Reduction",
		table: mapTable(reverse, pythagorean), Description: "Pythagorean values counted from z."})
	register(s, MethodInfo{ID: EnglishExtended, Name: "English Extended",
		table: extended, Description: "Hebrew-style values: a=1 ... i=9, j=10 ... r=90, s=100 ... z=800."})
	register(s, MethodInfo{ID: EnglishSumerian, Name: "Sumerian",
		table: mapTable(ordinal, func(v int) int { return v * 6 }), Description: "Ordinal value times six."})
	register(s, MethodInfo{ID: EnglishTQ, Name: "Trigrammaton Qabalah (TQ)",
		table: tq, Description: "i=0, l=1, c=2, h=3, p=4 ... u=25."})
	register(s, MethodInfo{ID: EnglishAtbash, Name: "English Atbash",
		Aggregation: AggSubstitution, substitution: mirrorSubstitution(englishAlphabet),
		Description: "a<->z, b<->y, ... then ordinal value."})
	register(s, MethodInfo{ID: EnglishSquared, Name: "Squared Ordinal",
		Aggregation: AggSquared, Description: "Each letter's ordinal value squared."})
	register(s, MethodInfo{ID: EnglishBuilding, Name: "Building Ordinal",
		Aggregation: AggBuilding, Description: "Each letter adds the running ordinal total so far."})
	register(s, MethodInfo{ID: EnglishTriangular, Name: "Triangular Ordinal",
		Aggregation: AggTriangular, Description: "Each letter counts as the triangular number of its ordinal."})
	register(s, MethodInfo{ID: EnglishAdditive, Name: "Additive Ordinal",
		Aggregation: AggAdditive, Description: "Ordinal value plus the number of letters."})
}
