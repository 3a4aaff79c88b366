package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize title-cases a word for display, e.g. category labels.
func Capitalize(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// Truncate shortens s to at most n runes. Slicing on runes keeps multi-byte
// characters intact.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
