package gematria

// Hebrew method identifiers.
const (
	HebrewStandard        Method = "hebrew-standard"
	HebrewOrdinal         Method = "hebrew-ordinal"
	HebrewOrdinalFinals   Method = "hebrew-ordinal-finals"
	HebrewReverseOrdinal  Method = "hebrew-reverse-ordinal"
	HebrewReduced         Method = "hebrew-reduced"
	HebrewIntegralReduced Method = "hebrew-integral-reduced"
	HebrewLarge           Method = "hebrew-large"
	HebrewSquared         Method = "hebrew-squared"
	HebrewCubed           Method = "hebrew-cubed"
	HebrewTotalSquared    Method = "hebrew-total-squared"
	HebrewBuilding        Method = "hebrew-building"
	HebrewTriangular      Method = "hebrew-triangular"
	HebrewKidmi           Method = "hebrew-kidmi"
	HebrewFullName        Method = "hebrew-full-name"
	HebrewFullNameFinals  Method = "hebrew-full-name-finals"
	HebrewHidden          Method = "hebrew-hidden"
	HebrewFaces           Method = "hebrew-faces"
	HebrewPositional      Method = "hebrew-positional"
	HebrewAdditive        Method = "hebrew-additive"
	HebrewAtbash          Method = "hebrew-atbash"
	HebrewAlbam           Method = "hebrew-albam"
	HebrewAchbi           Method = "hebrew-achbi"
	HebrewAvgad           Method = "hebrew-avgad"
	HebrewReverseAvgad    Method = "hebrew-reverse-avgad"
)

// HebrewFinals maps the five final letter forms to their base letters.
var HebrewFinals = map[rune]rune{
	'ך': 'כ',
	'ם': 'מ',
	'ן': 'נ',
	'ף': 'פ',
	'ץ': 'צ',
}

var hebrewAlphabet = []rune("אבגדהוזחטיכלמנסעפצקרשת")

var hebrewStandard = LetterTable{
	'א': 1, 'ב': 2, 'ג': 3, 'ד': 4, 'ה': 5, 'ו': 6, 'ז': 7, 'ח': 8, 'ט': 9,
	'י': 10, 'כ': 20, 'ל': 30, 'מ': 40, 'נ': 50, 'ס': 60, 'ע': 70, 'פ': 80, 'צ': 90,
	'ק': 100, 'ר': 200, 'ש': 300, 'ת': 400,
	'ך': 20, 'ם': 40, 'ן': 50, 'ף': 80, 'ץ': 90,
}

// Mispar Gadol: finals continue the hundreds.
var hebrewLarge = func() LetterTable {
	t := LetterTable{'ך': 500, 'ם': 600, 'ן': 700, 'ף': 800, 'ץ': 900}
	for r, v := range hebrewStandard {
		if _, final := HebrewFinals[r]; !final {
			t[r] = v
		}
	}
	return t
}()

var hebrewNames = map[rune]string{
	'א': "אלף", 'ב': "בית", 'ג': "גימל", 'ד': "דלת", 'ה': "הא", 'ו': "וו",
	'ז': "זין", 'ח': "חית", 'ט': "טית", 'י': "יוד", 'כ': "כף", 'ל': "למד",
	'מ': "מם", 'נ': "נון", 'ס': "סמך", 'ע': "עין", 'פ': "פא", 'צ': "צדי",
	'ק': "קוף", 'ר': "ריש", 'ש': "שין", 'ת': "תו",
}

func init() {
	s := registerScript(&script{
		lang:     Hebrew,
		alphabet: hebrewAlphabet,
		standard: hebrewStandard,
		aliases:  HebrewFinals,
		names:    hebrewNames,
	})

	ordinal := withAliases(ordinalTable(hebrewAlphabet), HebrewFinals)
	ordinalFinals := ordinalTable(hebrewAlphabet)
	for i, r := range []rune("ךםןףץ") {
		ordinalFinals[r] = len(hebrewAlphabet) + i + 1
	}
	reduced := mapTable(hebrewStandard, dropZeros)

	register(s, MethodInfo{ID: HebrewStandard, Name: "Mispar Hechrachi (Standard Value)",
		Description: "Absolute value: aleph=1 through tav=400; final forms share their base value."})
	register(s, MethodInfo{ID: HebrewOrdinal, Name: "Mispar Siduri (Ordinal Value)",
		table: ordinal, Description: "Position in the alphabet, 1 through 22."})
	register(s, MethodInfo{ID: HebrewOrdinalFinals, Name: "Mispar Siduri with Finals",
		table: ordinalFinals, Description: "Ordinal value with final forms numbered 23 through 27."})
	register(s, MethodInfo{ID: HebrewReverseOrdinal, Name: "Mispar Siduri Hafuch (Reverse Ordinal)",
		table: withAliases(reverseOrdinalTable(hebrewAlphabet), HebrewFinals),
		Description: "Position counted from tav=1 back to aleph=22."})
	register(s, MethodInfo{ID: HebrewReduced, Name: "Mispar Katan (Reduced Value)",
		table: reduced, Description: "Standard value with zeros dropped: yod=1, kaf=2, qof=1."})
	register(s, MethodInfo{ID: HebrewIntegralReduced, Name: "Mispar Katan Mispari (Integral Reduced)",
		table: reduced, Post: PostDigitalRoot, Description: "Reduced values summed, then reduced to one digit."})
	register(s, MethodInfo{ID: HebrewLarge, Name: "Mispar Gadol (Large Value)",
		table: hebrewLarge, Description: "Final forms continue the hundreds: final kaf=500 through final tsadi=900."})
	register(s, MethodInfo{ID: HebrewSquared, Name: "Mispar haMeruba haPrati (Squared)",
		Aggregation: AggSquared, Description: "Each letter's standard value squared."})
	register(s, MethodInfo{ID: HebrewCubed, Name: "Mispar Meshulash (Cubed)",
		Aggregation: AggCubed, Description: "Each letter's standard value cubed."})
	register(s, MethodInfo{ID: HebrewTotalSquared, Name: "Mispar haMeruba haKlali (Total Squared)",
		Post: PostSquareTotal, Description: "Standard value of the whole word, squared."})
	register(s, MethodInfo{ID: HebrewBuilding, Name: "Mispar Bone'eh (Building Value)",
		Aggregation: AggBuilding, Description: "Each letter adds the running total so far."})
	register(s, MethodInfo{ID: HebrewTriangular, Name: "Triangular Value",
		Aggregation: AggTriangular, Description: "Each letter counts as the triangular number of its value."})
	register(s, MethodInfo{ID: HebrewKidmi, Name: "Mispar Kidmi (Preceding Value)",
		table: withAliases(cumulativeTable(hebrewAlphabet, hebrewStandard), HebrewFinals),
		Description: "Each letter counts as the sum of itself and every letter before it."})
	register(s, MethodInfo{ID: HebrewFullName, Name: "Mispar Shemi (Full Name Value)",
		Aggregation: AggNameSpelling, Description: "Each letter counts as the value of its spelled-out name."})
	register(s, MethodInfo{ID: HebrewFullNameFinals, Name: "Mispar Shemi with Finals",
		Aggregation: AggNameSpelling, nameTable: hebrewLarge,
		Description: "Full name value with final forms in the names taking their large values."})
	register(s, MethodInfo{ID: HebrewHidden, Name: "Mispar Ne'elam (Hidden Value)",
		Aggregation: AggHidden, Description: "Full name value minus the letter itself."})
	register(s, MethodInfo{ID: HebrewFaces, Name: "Mispar haPanim (Faces Value)",
		Aggregation: AggFaces, Description: "First letter by its full name, the rest by standard value."})
	register(s, MethodInfo{ID: HebrewPositional, Name: "Mispar haAchor (Positional Value)",
		Aggregation: AggPositional, Description: "Each letter's value multiplied by its position in the word."})
	register(s, MethodInfo{ID: HebrewAdditive, Name: "Mispar Kolel (Additive Value)",
		Aggregation: AggAdditive, Description: "Standard value plus the number of letters."})
	register(s, MethodInfo{ID: HebrewAtbash, Name: "Atbash",
		Aggregation: AggSubstitution, substitution: mirrorSubstitution(hebrewAlphabet),
		Description: "Aleph<->tav, bet<->shin, ... then standard value."})
	register(s, MethodInfo{ID: HebrewAlbam, Name: "Albam",
		Aggregation: AggSubstitution, substitution: halvesSubstitution(hebrewAlphabet),
		Description: "Aleph<->lamed, bet<->mem, ... then standard value."})
	register(s, MethodInfo{ID: HebrewAchbi, Name: "Achbi",
		Aggregation: AggSubstitution, substitution: splitMirrorSubstitution(hebrewAlphabet),
		Description: "Each half of the alphabet mirrored: aleph<->kaf, lamed<->tav, then standard value."})
	register(s, MethodInfo{ID: HebrewAvgad, Name: "Avgad",
		Aggregation: AggSubstitution, substitution: shiftSubstitution(hebrewAlphabet, 1),
		Description: "Each letter replaced by the next one, then standard value."})
	register(s, MethodInfo{ID: HebrewReverseAvgad, Name: "Reverse Avgad",
		Aggregation: AggSubstitution, substitution: shiftSubstitution(hebrewAlphabet, -1),
		Description: "Each letter replaced by the previous one, then standard value."})
}
