// Package parser turns raw speech-recognition transcripts of Italian sales
// orders into structured orders: lexical normalization, clause segmentation,
// entity extraction and transcript re-alignment for highlighting.
package parser

import (
	"regexp"
	"sort"
	"strings"
)

// numberWords maps Italian cardinal number words (zero..cinquanta) to digits.
// These are only rewritten next to a quantity keyword; "mille" and "cento"
// are rewritten unconditionally because they recur inside article codes.
var numberWords = map[string]string{
	"zero": "0", "uno": "1", "due": "2", "tre": "3", "quattro": "4",
	"cinque": "5", "sei": "6", "sette": "7", "otto": "8", "nove": "9",
	"dieci": "10", "undici": "11", "dodici": "12", "tredici": "13",
	"quattordici": "14", "quindici": "15", "sedici": "16",
	"diciassette": "17", "diciotto": "18", "diciannove": "19",
	"venti": "20", "ventuno": "21", "ventidue": "22", "ventitre": "23",
	"ventitré": "23", "ventiquattro": "24", "venticinque": "25",
	"ventisei": "26", "ventisette": "27", "ventotto": "28", "ventinove": "29",
	"trenta": "30", "trentuno": "31", "trentadue": "32", "trentatre": "33",
	"trentatré": "33", "trentaquattro": "34", "trentacinque": "35",
	"trentasei": "36", "trentasette": "37", "trentotto": "38",
	"trentanove": "39", "quaranta": "40", "quarantuno": "41",
	"quarantadue": "42", "quarantatre": "43", "quarantatré": "43",
	"quarantaquattro": "44", "quarantacinque": "45", "quarantasei": "46",
	"quarantasette": "47", "quarantotto": "48", "quarantanove": "49",
	"cinquanta": "50",
}

// numberWordAlternation joins all number words longest-first, so that
// "ventuno" is tried before its textual prefix "venti".
func numberWordAlternation() string {
	words := make([]string, 0, len(numberWords))
	for w := range numberWords {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return strings.Join(words, "|")
}

// prefixStopwords are tokens that must never be treated as an article-code
// prefix or glued onto one.
var prefixStopwords = map[string]struct{}{
	"articolo": {}, "articoli": {}, "aggiungi": {}, "aggiungere": {},
	"poi": {}, "ancora": {}, "inserisci": {}, "metti": {},
	"pezzo": {}, "pezzi": {}, "pz": {}, "prezzo": {},
	"cliente": {}, "nome": {}, "codice": {}, "id": {},
}

var (
	reMille = regexp.MustCompile(`\bmille\b`)
	reCento = regexp.MustCompile(`\bcento\b`)

	// Number word right after a quantity keyword. The trailing separator is
	// captured (not a \b) because Go word boundaries are ASCII-only and the
	// table contains accented words.
	reWordAfterKeyword = regexp.MustCompile(
		`((?:\b(?:pezzo|pezzi|pz)|\bquantità)\s+)(` + numberWordAlternation() + `)(\s|,|\.|$)`)
	// Number word right before pezzo/pezzi/pz.
	reWordBeforeKeyword = regexp.MustCompile(
		`\b(` + numberWordAlternation() + `)(\s+(?:pezzo|pezzi|pz)\b)`)

	reSpokenDot    = regexp.MustCompile(`\s+punto\s+`)
	reSpokenDash   = regexp.MustCompile(`\s+trattino\s+`)
	reSpokenSlash  = regexp.MustCompile(`\s+slash\s+`)
	reLetterSuffix = regexp.MustCompile(`\b([a-z]+\d+)\s+([a-z]{1,3})\b`)

	reThreeGroups = regexp.MustCompile(`\b([a-z]+\d*)\s+(\d+)\s+(\d+)\s+(\d+)\b`)
	reTwoGroups   = regexp.MustCompile(`\b([a-z]+\d*)\s+(\d+)\s+(\d+)\b`)
	reDigitSpace  = regexp.MustCompile(`(\d+)\s+(\d+)`)
	reDigitHyphen = regexp.MustCompile(`(\d)-(\d)`)
	reSpaces      = regexp.MustCompile(`\s+`)

	// A number right before one of these is a quantity, not a code segment.
	reQuantitySuffix = regexp.MustCompile(`^\s*(?:pezzo|pezzi|pz)\b`)

	reCodePrefixGap = regexp.MustCompile(`^([a-z]+) (\d+(?:\.\d+)*)$`)
)

// Normalize rewrites a raw transcript into its canonical lowercase form:
// spoken numbers become digits, spoken punctuation becomes symbols and
// space-separated article-code fragments are joined into dot-delimited
// segments. Pure function, no side effects.
func Normalize(text string) string {
	s := strings.ToLower(text)

	// "mille" and "cento" convert anywhere, they appear inside codes.
	s = reMille.ReplaceAllString(s, "1000")
	s = reCento.ReplaceAllString(s, "100")

	// All other number words convert only next to a quantity keyword.
	s = reWordAfterKeyword.ReplaceAllStringFunc(s, func(m string) string {
		sub := reWordAfterKeyword.FindStringSubmatch(m)
		return sub[1] + numberWords[sub[2]] + sub[3]
	})
	s = reWordBeforeKeyword.ReplaceAllStringFunc(s, func(m string) string {
		sub := reWordBeforeKeyword.FindStringSubmatch(m)
		return numberWords[sub[1]] + sub[2]
	})

	// Spoken punctuation between tokens.
	s = reSpokenDot.ReplaceAllString(s, ".")
	s = reSpokenDash.ReplaceAllString(s, "-")
	s = reSpokenSlash.ReplaceAllString(s, "/")

	// "h269 gk" → "h269gk". Must happen before the numeric-segment rules so
	// the joined prefix participates in them.
	s = joinLetterSuffix(s)

	// Dot-delimit numeric groups after a code prefix; three groups first so
	// the two-group rule cannot partially consume them.
	s = replaceGroups(reThreeGroups, s)
	s = replaceGroups(reTwoGroups, s)

	// Remaining bare digit pairs and digit hyphens collapse into dots.
	s = replaceUntilStable(s, func(cur string) string { return replaceGroups(reDigitSpace, cur) })
	s = replaceUntilStable(s, func(cur string) string { return reDigitHyphen.ReplaceAllString(cur, "$1.$2") })

	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// NormalizeCode applies the article-code subset of the normalization rules to
// a code fragment and renders it uppercase. Normalizing an already-normalized
// code returns it unchanged.
func NormalizeCode(code string) string {
	s := Normalize(code)
	// A lone letter prefix followed by a single numeric group is one code
	// token ("sf 1000" → "sf1000").
	s = reCodePrefixGap.ReplaceAllString(s, "$1$2")
	return strings.ToUpper(s)
}

// joinLetterSuffix glues a short trailing letter token onto a preceding
// letter+digit token, skipping keyword tokens ("poi", "pz", ...).
func joinLetterSuffix(s string) string {
	return reLetterSuffix.ReplaceAllStringFunc(s, func(m string) string {
		sub := reLetterSuffix.FindStringSubmatch(m)
		if _, stop := prefixStopwords[sub[2]]; stop {
			return m
		}
		return sub[1] + sub[2]
	})
}

// replaceGroups joins the captured groups of each match with dots. A match is
// skipped when its first token is a vocabulary keyword rather than a code
// prefix, or when the text right after it is a quantity keyword. In that
// case the last number is a quantity and must not be fused into the code.
func replaceGroups(re *regexp.Regexp, s string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		first := s[m[2]:m[3]]
		if _, stop := prefixStopwords[first]; stop {
			continue
		}
		if reQuantitySuffix.MatchString(s[m[1]:]) {
			continue
		}
		b.WriteString(s[last:m[0]])
		for g := 1; 2*g < len(m); g++ {
			if g > 1 {
				b.WriteString(".")
			}
			b.WriteString(s[m[2*g] : m[2*g+1]])
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// replaceUntilStable reapplies a rewrite until it no longer changes the
// string. Needed where a match consumes characters the next match would need
// ("845 104 023" takes two passes to become "845.104.023").
func replaceUntilStable(s string, rewrite func(string) string) string {
	for {
		next := rewrite(s)
		if next == s {
			return s
		}
		s = next
	}
}
