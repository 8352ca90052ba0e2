package cluster

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeNameChars = regexp.MustCompile(`[^\w &-]+`)

// foldDiacritics decomposes accented characters and strips the combining
// marks, so "Šumava" sanitizes to "Sumava" instead of losing letters.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeName reduces a user-supplied set name to a filesystem-safe
// string: letters, digits, underscore, space, ampersand and dash.
func SanitizeName(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}
	return strings.TrimSpace(unsafeNameChars.ReplaceAllString(folded, ""))
}

// Rename sets the sanitized name on the set.
func (s *Set) Rename(name string) {
	s.Name = SanitizeName(name)
}
