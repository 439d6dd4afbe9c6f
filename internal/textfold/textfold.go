// Package textfold provides locale-insensitive string comparison for the
// Serbian Latin alphabet.
//
// Folding replaces the diacritic letters š, đ, č, ć, ž (and their uppercase
// forms, including the dž digraph) with their ASCII base letters and then
// lower-cases the result. Nothing else is substituted, so two strings that
// differ in any other rune still compare unequal after folding.
package textfold

import "strings"

// diacritics lists the replacements applied by Fold. The digraph entries come
// first so Dž is folded as a unit.
var diacritics = strings.NewReplacer(
	"dž", "dz", "Dž", "Dz",
	"š", "s", "Š", "S",
	"đ", "dj", "Đ", "Dj",
	"č", "c", "Č", "C",
	"ć", "c", "Ć", "C",
	"ž", "z", "Ž", "Z",
)

// Fold strips Serbian diacritics from s and lower-cases it.
func Fold(s string) string {
	return strings.ToLower(diacritics.Replace(s))
}

// Matches reports whether a and b are equal after folding.
func Matches(a, b string) bool {
	return Fold(a) == Fold(b)
}

// HasPrefix reports whether the folded s begins with the folded prefix.
func HasPrefix(s, prefix string) bool {
	return strings.HasPrefix(Fold(s), Fold(prefix))
}
