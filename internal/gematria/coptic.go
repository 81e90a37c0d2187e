package gematria

// Coptic method identifiers.
const (
	CopticStandard Method = "coptic-standard"
	CopticOrdinal  Method = "coptic-ordinal"
	CopticReduced  Method = "coptic-reduced"
	CopticSquared  Method = "coptic-squared"
	CopticBuilding Method = "coptic-building"
)

// Greek-derived letters followed by the letters borrowed from Demotic.
var copticAlphabet = []rune{
	'ⲁ', 'ⲃ', 'ⲅ', 'ⲇ', 'ⲉ', 'ⲍ', 'ⲏ', 'ⲑ', // alfa..thethe
	'ⲓ', 'ⲕ', 'ⲗ', 'ⲙ', 'ⲛ', 'ⲝ', 'ⲟ', 'ⲡ', // iauda..pi
	'ⲣ', 'ⲥ', 'ⲧ', 'ⲩ', 'ⲫ', 'ⲭ', 'ⲯ', 'ⲱ', // ro..oou
	'ϣ', 'ϥ', 'ϧ', 'ϩ', 'ϫ', 'ϭ', 'ϯ', // shei..dei
}

var copticStandard = LetterTable{
	'ⲁ': 1, 'ⲃ': 2, 'ⲅ': 3, 'ⲇ': 4, 'ⲉ': 5, 'ⲋ': 6, // sou
	'ⲍ': 7, 'ⲏ': 8, 'ⲑ': 9, 'ⲓ': 10, 'ⲕ': 20, 'ⲗ': 30,
	'ⲙ': 40, 'ⲛ': 50, 'ⲝ': 60, 'ⲟ': 70, 'ⲡ': 80, 'ϥ': 90, // fei
	'ⲣ': 100, 'ⲥ': 200, 'ⲧ': 300, 'ⲩ': 400, 'ⲫ': 500,
	'ⲭ': 600, 'ⲯ': 700, 'ⲱ': 800, 'ⳁ': 900, // sampi
}

func init() {
	s := registerScript(&script{
		lang:     Coptic,
		alphabet: copticAlphabet,
		standard: copticStandard,
		foldCase: true,
	})

	register(s, MethodInfo{ID: CopticStandard, Name: "Coptic Standard Value",
		Description: "Greek-derived numerals: alfa=1 through oou=800, fei=90, sampi=900."})
	register(s, MethodInfo{ID: CopticOrdinal, Name: "Coptic Ordinal Value",
		table: ordinalTable(copticAlphabet), Description: "Position in the 31-letter alphabet."})
	register(s, MethodInfo{ID: CopticReduced, Name: "Coptic Reduced Value",
		table: mapTable(copticStandard, dropZeros), Description: "Standard value with zeros dropped."})
	register(s, MethodInfo{ID: CopticSquared, Name: "Coptic Squared Value",
		Aggregation: AggSquared, Description: "Each letter's standard value squared."})
	register(s, MethodInfo{ID: CopticBuilding, Name: "Coptic Building Value",
		Aggregation: AggBuilding, Description: "Each letter adds the running total so far."})
}
