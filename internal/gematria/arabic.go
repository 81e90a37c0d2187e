package gematria

// Arabic method identifiers.
const (
	ArabicStandard Method = "arabic-standard"
	ArabicOrdinal  Method = "arabic-ordinal"
	ArabicReduced  Method = "arabic-reduced"
	ArabicSmall    Method = "arabic-small"
	ArabicSquared  Method = "arabic-squared"
	ArabicBuilding Method = "arabic-building"
	ArabicAdditive Method = "arabic-additive"
)

// Abjadi order (Mashriqi).
var arabicAlphabet = []rune("ابجدهوزحطيكلمنسعفصقرشتثخذضظغ")

var arabicAliases = map[rune]rune{
	'ة': 'ه', // ta marbuta
	'ى': 'ي', // alif maqsura
	'ٱ': 'ا', // alif wasla
	'ء': 'ا', // lone hamza
}

func init() {
	standard := make(LetterTable, len(arabicAlphabet))
	for i, r := range arabicAlphabet {
		unit := i%9 + 1
		switch {
		case i < 9:
			standard[r] = unit
		case i < 18:
			standard[r] = unit * 10
		case i < 27:
			standard[r] = unit * 100
		default:
			standard[r] = 1000
		}
	}
	standard = withAliases(standard, arabicAliases)

	s := registerScript(&script{
		lang:     Arabic,
		alphabet: arabicAlphabet,
		standard: standard,
		aliases:  arabicAliases,
	})

	register(s, MethodInfo{ID: ArabicStandard, Name: "Abjad Kabir (Standard Value)",
		Description: "alif=1 through ghayn=1000 in abjadi order."})
	register(s, MethodInfo{ID: ArabicOrdinal, Name: "Abjadi Ordinal Value",
		table: withAliases(ordinalTable(arabicAlphabet), arabicAliases), Description: "Position in abjadi order, 1 through 28."})
	register(s, MethodInfo{ID: ArabicReduced, Name: "Reduced Value",
		table: mapTable(standard, dropZeros), Description: "Standard value with zeros dropped."})
	register(s, MethodInfo{ID: ArabicSmall, Name: "Abjad Saghir (Small Value)",
		table: mapTable(standard, func(v int) int { return v % 12 }), Description: "Standard value modulo 12."})
	register(s, MethodInfo{ID: ArabicSquared, Name: "Squared Value",
		Aggregation: AggSquared, Description: "Each letter's standard value squared."})
	register(s, MethodInfo{ID: ArabicBuilding, Name: "Building Value",
		Aggregation: AggBuilding, Description: "Each letter adds the running total so far."})
	register(s, MethodInfo{ID: ArabicAdditive, Name: "Additive Value",
		Aggregation: AggAdditive, Description: "Standard value plus the number of letters."})
}
