package gematria

// Greek method identifiers.
const (
	GreekStandard       Method = "greek-standard"
	GreekOrdinal        Method = "greek-ordinal"
	GreekReverseOrdinal Method = "greek-reverse-ordinal"
	GreekReduced        Method = "greek-reduced"
	GreekDigital        Method = "greek-digital"
	GreekSquared        Method = "greek-squared"
	GreekCubed          Method = "greek-cubed"
	GreekBuilding       Method = "greek-building"
	GreekTriangular     Method = "greek-triangular"
	GreekFullName       Method = "greek-full-name"
	GreekHidden         Method = "greek-hidden"
	GreekPositional     Method = "greek-positional"
	GreekAdditive       Method = "greek-additive"
	GreekReversal       Method = "greek-reversal"
	GreekAlbam          Method = "greek-albam"
)

var greekAlphabet = []rune("αβγδεζηθικλμνξοπρστυφχψω")

// Milesian numerals, including the archaic stigma/digamma, koppa and sampi.
var greekStandard = LetterTable{
	'α': 1, 'β': 2, 'γ': 3, 'δ': 4, 'ε': 5, 'ϛ': 6, 'ϝ': 6, 'ζ': 7, 'η': 8, 'θ': 9,
	'ι': 10, 'κ': 20, 'λ': 30, 'μ': 40, 'ν': 50, 'ξ': 60, 'ο': 70, 'π': 80, 'ϟ': 90, 'ϙ': 90,
	'ρ': 100, 'σ': 200, 'ς': 200, 'τ': 300, 'υ': 400, 'φ': 500, 'χ': 600, 'ψ': 700, 'ω': 800,
	'ϡ': 900,
}

var greekAliases = map[rune]rune{
	'ς': 'σ',
	'ϐ': 'β',
	'ϑ': 'θ',
	'ϕ': 'φ',
	'ϖ': 'π',
	'ϰ': 'κ',
	'ϱ': 'ρ',
	'ϲ': 'σ',
}

var greekNames = map[rune]string{
	'α': "αλφα", 'β': "βητα", 'γ': "γαμμα", 'δ': "δελτα", 'ε': "εψιλον", 'ζ': "ζητα",
	'η': "ητα", 'θ': "θητα", 'ι': "ιωτα", 'κ': "καππα", 'λ': "λαμβδα", 'μ': "μυ",
	'ν': "νυ", 'ξ': "ξι", 'ο': "ομικρον", 'π': "πι", 'ρ': "ρω", 'σ': "σιγμα",
	'τ': "ταυ", 'υ': "υψιλον", 'φ': "φι", 'χ': "χι", 'ψ': "ψι", 'ω': "ωμεγα",
}

func init() {
	standard := withAliases(greekStandard, greekAliases)
	s := registerScript(&script{
		lang:     Greek,
		alphabet: greekAlphabet,
		standard: standard,
		aliases:  greekAliases,
		names:    greekNames,
		foldCase: true,
	})

	register(s, MethodInfo{ID: GreekStandard, Name: "Arithmos (Isopsephy)",
		Description: "Milesian numerals: alpha=1 through omega=800, with stigma, koppa and sampi."})
	register(s, MethodInfo{ID: GreekOrdinal, Name: "Arithmos Taktikos (Ordinal Value)",
		table:       withAliases(ordinalTable(greekAlphabet), greekAliases),
		Description: "Position in the 24-letter alphabet."})
	register(s, MethodInfo{ID: GreekReverseOrdinal, Name: "Reverse Ordinal Value",
		table:       withAliases(reverseOrdinalTable(greekAlphabet), greekAliases),
		Description: "Position counted from omega=1 back to alpha=24."})
	register(s, MethodInfo{ID: GreekReduced, Name: "Arithmos Pythmenikos (Reduced Value)",
		table:       mapTable(standard, dropZeros),
		Description: "Standard value with zeros dropped (the pythmen)."})
	register(s, MethodInfo{ID: GreekDigital, Name: "Digital Value",
		Post: PostDigitalRoot, Description: "Standard value reduced to a single digit."})
	register(s, MethodInfo{ID: GreekSquared, Name: "Squared Value",
		Aggregation: AggSquared, Description: "Each letter's standard value squared."})
	register(s, MethodInfo{ID: GreekCubed, Name: "Cubed Value",
		Aggregation: AggCubed, Description: "Each letter's standard value cubed."})
	register(s, MethodInfo{ID: GreekBuilding, Name: "Building Value",
		Aggregation: AggBuilding, Description: "Each letter adds the running total so far."})
	register(s, MethodInfo{ID: GreekTriangular, Name: "Triangular Value",
		Aggregation: AggTriangular, Description: "Each letter counts as the triangular number of its value."})
	register(s, MethodInfo{ID: GreekFullName, Name: "Full Name Value",
		Aggregation: AggNameSpelling, Description: "Each letter counts as the value of its spelled-out name."})
	register(s, MethodInfo{ID: GreekHidden, Name: "Hidden Value",
		Aggregation: AggHidden, Description: "Full name value minus the letter itself."})
	register(s, MethodInfo{ID: GreekPositional, Name: "Positional Value",
		Aggregation: AggPositional, Description: "Each letter's value multiplied by its position in the word."})
	register(s, MethodInfo{ID: GreekAdditive, Name: "Additive Value",
		Aggregation: AggAdditive, Description: "Standard value plus the number of letters."})
	register(s, MethodInfo{ID: GreekReversal, Name: "Alphabet Reversal Substitution",
		Aggregation: AggSubstitution, substitution: mirrorSubstitution(greekAlphabet),
		Description: "Alpha<->omega, beta<->psi, ... then standard value."})
	register(s, MethodInfo{ID: GreekAlbam, Name: "Alphabet Exchange Substitution",
		Aggregation: AggSubstitution, substitution: halvesSubstitution(greekAlphabet),
		Description: "Alpha<->nu, beta<->xi, ... then standard value."})
}
