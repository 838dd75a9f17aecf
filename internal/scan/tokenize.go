// Package scan derives inheritance edges from source text with lexical
// heuristics: whitespace tokens, a naming-convention check and a one-token
// lookbehind for the declaration keyword.
package scan

import (
	"strings"
	"unicode"
)

// Tokenize splits text on runs of whitespace. Punctuation stays attached to
// the token and case is preserved.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// IsClassName reports whether token looks like a PascalCase type name: the
// first rune is uppercase and no two uppercase runes are adjacent. Lowercase
// runes reset the adjacency check; digits and punctuation are ignored, so
// "Base(Mixin," still qualifies while "HTTPServer" does not.
func IsClassName(token string) bool {
	if token == "" {
		return false
	}
	prevUpper := false
	for i, r := range token {
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
		switch {
		case unicode.IsUpper(r):
			if prevUpper {
				return false
			}
			prevUpper = true
		case unicode.IsLower(r):
			prevUpper = false
		}
	}
	return true
}
