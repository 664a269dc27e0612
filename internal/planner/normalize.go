package planner

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and strips diacritics, so "Brócolis" and
// "brocolis" compare equal.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, lower)
	if err != nil {
		return lower
	}
	return out
}

// overlaps reports whether either string contains the other.
func overlaps(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
