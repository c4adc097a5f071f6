package numerology

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// diacriticFold maps the Portuguese/Spanish accented letters onto their base letter.
// Anything outside this table and a-z is discarded during scoring.
var diacriticFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c',
	'ñ': 'n',
}

var lowerCaser = cases.Lower(language.Und)

// LetterValue is the Pythagorean value of a lowercase letter: a=1..i=9, j=1..r=9, s=1..z=8.
// Any other rune, including space, is worth 0.
func LetterValue(r rune) int {
	if r < 'a' || r > 'z' {
		return 0
	}
	return int(r-'a')%9 + 1
}

// FoldName lowercases name, folds accented letters and keeps only a-z and spaces.
// Precomposed and decomposed inputs fold identically.
func FoldName(name string) string {
	lowered := lowerCaser.String(norm.NFC.String(name))
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if base, ok := diacriticFold[r]; ok {
			r = base
		}
		if (r >= 'a' && r <= 'z') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasLetters reports whether name keeps at least one letter after folding.
func HasLetters(name string) bool {
	return strings.TrimSpace(FoldName(name)) != ""
}

func letterSum(name string) int {
	sum := 0
	for _, r := range FoldName(name) {
		sum += LetterValue(r)
	}
	return sum
}

// DestinyNumber scores the letters of a full name and reduces the sum, keeping
// master numbers. A name with no Latin letters scores 0.
func DestinyNumber(fullName string) int {
	return ReduceToSingleDigitOrMaster(letterSum(fullName))
}
