package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText folds case, strips diacritics and collapses whitespace.
// Examples:
//   - "Plus  RÉPARABLE" -> "plus reparable"
//   - "Bon Marché"      -> "bon marche"
func NormalizeText(s string) string {
	// transform.Chain is stateful, build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)
	return strings.Join(strings.Fields(folded), " ")
}

// Tokens splits normalized text into letter/digit words.
// Example: "LG-F4V510 (2025)" -> ["lg", "f4v510", "2025"]
func Tokens(s string) []string {
	return strings.FieldsFunc(NormalizeText(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsPhrase reports whether phrase appears in text as whole words.
// Both sides are normalized first.
func ContainsPhrase(text, phrase string) bool {
	needle := Tokens(phrase)
	if len(needle) == 0 {
		return false
	}
	hay := " " + strings.Join(Tokens(text), " ") + " "
	return strings.Contains(hay, " "+strings.Join(needle, " ")+" ")
}
