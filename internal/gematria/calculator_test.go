package gematria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gematria/internal/errors"
)

func calc(t *testing.T, text string, m Method) int {
	t.Helper()
	v, err := Calculate(text, m)
	require.NoError(t, err)
	return v
}

func TestHebrewMethods(t *testing.T) {
	tests := []struct {
		method Method
		text   string
		want   int
	}{
		{HebrewStandard, "שלום", 376},
		{HebrewStandard, "אמת", 441},
		{HebrewStandard, "יהוה", 26},
		{HebrewStandard, "שָׁלוֹם", 376},
		{HebrewLarge, "שלום", 936},
		{HebrewOrdinal, "שלום", 52},
		{HebrewOrdinalFinals, "ם", 24},
		{HebrewReverseOrdinal, "א", 22},
		{HebrewReverseOrdinal, "ת", 1},
		{HebrewReduced, "שלום", 16},
		{HebrewIntegralReduced, "שלום", 7},
		{HebrewSquared, "אב", 5},
		{HebrewCubed, "אב", 9},
		{HebrewTotalSquared, "אב", 9},
		{HebrewBuilding, "אבג", 10},
		{HebrewTriangular, "אב", 4},
		{HebrewTriangular, "י", 55},
		{HebrewKidmi, "אב", 4},
		{HebrewKidmi, "כ", 75},
		{HebrewKidmi, "ך", 75},
		{HebrewFullName, "א", 111},
		{HebrewFullName, "אב", 523},
		{HebrewFullName, "ם", 80},
		{HebrewFullNameFinals, "א", 831},
		{HebrewHidden, "א", 110},
		{HebrewFaces, "אב", 113},
		{HebrewPositional, "אבג", 14},
		{HebrewAdditive, "אב", 5},
		{HebrewAtbash, "אב", 700},
		{HebrewAtbash, "ך", 30},
		{HebrewAlbam, "א", 30},
		{HebrewAchbi, "א", 20},
		{HebrewAvgad, "א", 2},
		{HebrewAvgad, "ת", 1},
		{HebrewReverseAvgad, "א", 400},
	}
	for _, tt := range tests {
		t.Run(string(tt.method)+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, calc(t, tt.text, tt.method))
		})
	}
}

func TestGreekMethods(t *testing.T) {
	tests := []struct {
		method Method
		text   string
		want   int
	}{
		{GreekStandard, "λογος", 373},
		{GreekStandard, "Ιησους", 888},
		{GreekStandard, "Ἰησοῦς", 888},
		{GreekStandard, "ΛΟΓΟΣ", 373},
		{GreekOrdinal, "αω", 25},
		{GreekReverseOrdinal, "α", 24},
		{GreekReduced, "ω", 8},
		{GreekDigital, "λογος", 4},
		{GreekFullName, "α", 532},
		{GreekHidden, "α", 531},
		{GreekReversal, "α", 800},
		{GreekReversal, "ς", 8},
		{GreekAlbam, "α", 50},
		{GreekAdditive, "αβ", 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.method)+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, calc(t, tt.text, tt.method))
		})
	}
}

func TestEnglishMethods(t *testing.T) {
	tests := []struct {
		method Method
		text   string
		want   int
	}{
		{EnglishOrdinal, "abc", 6},
		{EnglishOrdinal, "Hello", 52},
		{EnglishOrdinal, "Hello, World!", 124},
		{EnglishReverseOrdinal, "a", 26},
		{EnglishReduced, "z", 8},
		{EnglishReverseReduced, "a", 8},
		{EnglishExtended, "j", 10},
		{EnglishExtended, "s", 100},
		{EnglishExtended, "z", 800},
		{EnglishSumerian, "a", 6},
		{EnglishTQ, "i", 0},
		{EnglishTQ, "u", 25},
		{EnglishAtbash, "a", 26},
		{EnglishSquared, "ab", 5},
		{EnglishBuilding, "abc", 10},
		{EnglishTriangular, "c", 6},
		{EnglishAdditive, "ab", 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.method)+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, calc(t, tt.text, tt.method))
		})
	}
}

func TestCopticAndArabicMethods(t *testing.T) {
	assert.Equal(t, 3, calc(t, "ⲁⲃ", CopticStandard))
	assert.Equal(t, 1, calc(t, "Ⲁ", CopticStandard))
	assert.Equal(t, 90, calc(t, "ϥ", CopticStandard))
	assert.Equal(t, 900, calc(t, "ⳁ", CopticStandard))
	assert.Equal(t, 26, calc(t, "ϥ", CopticOrdinal))

	assert.Equal(t, 102, calc(t, "بسم", ArabicStandard))
	assert.Equal(t, 66, calc(t, "الله", ArabicStandard))
	assert.Equal(t, 92, calc(t, "محمد", ArabicStandard))
	assert.Equal(t, 1, calc(t, "أ", ArabicStandard))
	assert.Equal(t, 5, calc(t, "ة", ArabicStandard))
	assert.Equal(t, 1000, calc(t, "غ", ArabicStandard))
	assert.Equal(t, 4, calc(t, "غ", ArabicSmall))
	assert.Equal(t, 28, calc(t, "غ", ArabicOrdinal))
	assert.Equal(t, 1, calc(t, "غ", ArabicReduced))
}

func TestUnsupportedMethod(t *testing.T) {
	_, err := Calculate("שלום", Method("hebrew-nonexistent"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = Substitute("שלום", HebrewStandard)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestLookupMethodIsForgiving(t *testing.T) {
	m, err := LookupMethod(" Hebrew-Standard ")
	require.NoError(t, err)
	assert.Equal(t, HebrewStandard, m.ID)
	assert.Equal(t, Hebrew, m.Language)

	v, ok := m.Value('ת')
	assert.True(t, ok)
	assert.Equal(t, 400, v)

	greek, err := LookupMethod(GreekStandard)
	require.NoError(t, err)
	v, ok = greek.Value('Λ')
	assert.True(t, ok)
	assert.Equal(t, 30, v)

	english, err := LookupMethod(EnglishOrdinal)
	require.NoError(t, err)
	v, ok = english.Value('Z')
	assert.True(t, ok)
	assert.Equal(t, 26, v)
}

func TestEmptyAndUnmatchedAreZero(t *testing.T) {
	for _, m := range Methods() {
		for _, text := range []string{"", "123 !?", "ָּ"} {
			assert.Zero(t, m.Calculate(text), "%s(%q)", m.ID, text)
		}
	}
}

var samples = map[Language][2]string{
	Hebrew:  {"בראשית", "ברא אלהים"},
	Greek:   {"Ἐν ἀρχῇ", "ἦν ὁ λόγος"},
	English: {"In the beginning", "was the Word"},
	Coptic:  {"ⲡⲛⲟⲩⲧⲉ", "ⲁⲩⲱ ⲡϣⲏⲣⲉ"},
	Arabic:  {"بسم الله", "الرحمن الرحيم"},
}

func TestPerLetterMethodsAreAdditiveUnderConcatenation(t *testing.T) {
	perLetter := map[Aggregation]bool{
		AggSum: true, AggSquared: true, AggCubed: true, AggTriangular: true,
		AggSubstitution: true, AggNameSpelling: true, AggHidden: true,
	}
	for _, m := range Methods() {
		if !perLetter[m.Aggregation] || m.Post != PostNone {
			continue
		}
		pair := samples[m.Language]
		a, b := pair[0], pair[1]
		assert.Equal(t, m.Calculate(a)+m.Calculate(b), m.Calculate(a+b), "%s", m.ID)
	}
}

func TestSubstitutionInvolutions(t *testing.T) {
	for _, id := range []Method{HebrewAtbash, HebrewAlbam, HebrewAchbi, GreekReversal, GreekAlbam, EnglishAtbash} {
		m, err := LookupMethod(id)
		require.NoError(t, err)
		alphabet := string(Alphabet(m.Language))

		once, err := Substitute(alphabet, id)
		require.NoError(t, err)
		assert.NotEqual(t, alphabet, once, "%s should change the alphabet", id)

		twice, err := Substitute(once, id)
		require.NoError(t, err)
		assert.Equal(t, alphabet, twice, "%s should be an involution", id)
	}
}

func TestAvgadIsNotAnInvolution(t *testing.T) {
	once, err := Substitute("א", HebrewAvgad)
	require.NoError(t, err)
	assert.Equal(t, "ב", once)

	back, err := Substitute(once, HebrewReverseAvgad)
	require.NoError(t, err)
	assert.Equal(t, "א", back)
}

func TestSubstituteKeepsUnmappedCharacters(t *testing.T) {
	out, err := Substitute("א ב!", HebrewAtbash)
	require.NoError(t, err)
	assert.Equal(t, "ת ש!", out)
}

func TestSubstituteKeepsCase(t *testing.T) {
	once, err := Substitute("ABC xyz", EnglishAtbash)
	require.NoError(t, err)
	assert.Equal(t, "ZYX cba", once)

	twice, err := Substitute(once, EnglishAtbash)
	require.NoError(t, err)
	assert.Equal(t, "ABC xyz", twice)

	greek, err := Substitute("Α", GreekReversal)
	require.NoError(t, err)
	assert.Equal(t, "Ω", greek)
}

func TestSubstituteWritesBaseForms(t *testing.T) {
	// Final kaf maps like kaf (to lamed) and comes back as plain kaf.
	once, err := Substitute("ך", HebrewAtbash)
	require.NoError(t, err)
	assert.Equal(t, "ל", once)

	twice, err := Substitute(once, HebrewAtbash)
	require.NoError(t, err)
	assert.Equal(t, "כ", twice)
}

func TestCalculateAll(t *testing.T) {
	results := CalculateAll("שלום", Hebrew)
	require.Len(t, results, len(MethodsFor(Hebrew)))
	assert.Equal(t, HebrewStandard, results[0].Method)
	assert.Equal(t, 376, results[0].Value)
	for _, r := range results {
		assert.Equal(t, Hebrew, r.Language)
		assert.NotEmpty(t, r.Name)
	}
}

func TestMethodsCatalogue(t *testing.T) {
	seen := map[Method]bool{}
	for _, m := range Methods() {
		assert.False(t, seen[m.ID], "duplicate %s", m.ID)
		seen[m.ID] = true
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Description)
		assert.True(t, m.Aggregation.Valid())
	}
	for _, lang := range Languages {
		assert.NotEmpty(t, MethodsFor(lang), "%s has no methods", lang)
	}
	assert.Len(t, MethodsFor(Hebrew), 24)
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]Language{
		"שלום עולם":    Hebrew,
		"λόγος":        Greek,
		"hello":        English,
		"ⲡⲛⲟⲩⲧⲉ":       Coptic,
		"بسم الله":     Arabic,
		"שלום hi":      Hebrew,
		"ϣⲁϥ ϩⲓ":       Coptic,
		"λόγος and more": English,
	}
	for text, want := range tests {
		got, ok := DetectLanguage(text)
		assert.True(t, ok, text)
		assert.Equal(t, want, got, text)
	}

	_, ok := DetectLanguage("1234 !!")
	assert.False(t, ok)
}

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]Language{"he": Hebrew, "Greek": Greek, "EN": English, "cop": Coptic, "ar": Arabic} {
		got, err := ParseLanguage(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLanguage("klingon")
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Equal(t, "Hebrew", Hebrew.Title())
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 0, Reduce(0))
	assert.Equal(t, 7, Reduce(376))
	assert.Equal(t, 9, Reduce(999))
	assert.Equal(t, 55, TriangularNumber(10))
	assert.Equal(t, 4, dropZeros(400))
	assert.Equal(t, 15, dropZeros(15))
	assert.Equal(t, "שלום", Normalize("שָׁלוֹם"))
	assert.Equal(t, "λογος", Normalize("λόγος"))
}
