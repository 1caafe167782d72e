package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_SpacedCodeSegments(t *testing.T) {
	got := Normalize("articolo H71 104 032 quantità 5")
	assert.Equal(t, "articolo h71.104.032 quantità 5", got)
}

func TestNormalize_BareDigitGroupsCollapse(t *testing.T) {
	got := Normalize("articolo 845 104 023 quantità 10")
	assert.Equal(t, "articolo 845.104.023 quantità 10", got)
}

func TestNormalize_SpokenPunctuation(t *testing.T) {
	assert.Equal(t, "articolo 845.104.023", Normalize("articolo 845 punto 104 punto 023"))
	assert.Equal(t, "codice ab-12", Normalize("codice ab trattino 12"))
	assert.Equal(t, "codice ab/12", Normalize("codice ab slash 12"))
}

func TestNormalize_DigitHyphenCollapse(t *testing.T) {
	assert.Equal(t, "articolo 845.104", Normalize("articolo 845-104"))
}

func TestNormalize_MilleAndCentoConvertAnywhere(t *testing.T) {
	assert.Equal(t, "articolo sf 1000", Normalize("articolo sf mille"))
	assert.Equal(t, "articolo xy 100", Normalize("articolo XY cento"))
}

func TestNormalize_NumberWordsOnlyNextToQuantityKeyword(t *testing.T) {
	assert.Equal(t, "quantità 5", Normalize("quantità cinque"))
	assert.Equal(t, "3 pezzi", Normalize("tre pezzi"))
	assert.Equal(t, "pezzi 23", Normalize("pezzi ventitré"))

	// Away from a quantity keyword the word stays a word.
	assert.Equal(t, "cliente tre stelle", Normalize("cliente Tre Stelle"))
}

func TestNormalize_LongestNumberWordWins(t *testing.T) {
	// "ventuno" must not be read as "venti" + "uno".
	assert.Equal(t, "quantità 21", Normalize("quantità ventuno"))
	assert.Equal(t, "quantità 43", Normalize("quantità quarantatré"))
}

func TestNormalize_QuantityNotFusedIntoCode(t *testing.T) {
	// The trailing 3 is a quantity, not a fourth code segment.
	got := Normalize("articolo h71 104 032 3 pezzi")
	assert.Equal(t, "articolo h71.104.032 3 pezzi", got)

	got = Normalize("articolo sf 1000 3 pezzi")
	assert.Equal(t, "articolo sf 1000 3 pezzi", got)
}

func TestNormalize_LetterSuffixJoined(t *testing.T) {
	assert.Equal(t, "articolo h269gk", Normalize("articolo H269 GK"))

	// Vocabulary words never glue onto a code.
	assert.Equal(t, "articolo h269 poi", Normalize("articolo H269 poi"))
}

func TestNormalize_Whitespace(t *testing.T) {
	assert.Equal(t, "cliente mario rossi", Normalize("  Cliente   Mario  Rossi  "))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"articolo H71 104 032 quantità 5",
		"articolo 845 punto 104 punto 023",
		"cliente Mario Rossi, articolo sf mille 3 pezzi",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeCode_PrefixGapJoined(t *testing.T) {
	assert.Equal(t, "SF1000", NormalizeCode("sf 1000"))
	assert.Equal(t, "SF1000", NormalizeCode("SF mille"))
	assert.Equal(t, "H71.104.032", NormalizeCode("h71 104 032"))
}

func TestNormalizeCode_Idempotent(t *testing.T) {
	for _, code := range []string{"SF1000", "H71.104.032", "845.104.023", "H269GK"} {
		assert.Equal(t, code, NormalizeCode(code))
	}
}
