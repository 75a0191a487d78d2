// Package normalize canonicalizes theme text for matching.
//
// RemoveAccents keeps the length-sensitive shape of a string (it is used by
// pattern search), while FormatTheme produces a whitespace-free key used by
// exact, partial and equivalence matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var letterReplacer = strings.NewReplacer(
	"ı", "i", // dotless i
	"ł", "l",
	"Ł", "l",
)

// RemoveAccents strips combining diacritical marks (U+0300–U+036F) after
// NFKD decomposition. Strings containing Hangul syllables, kana or CJK
// ideographs are returned unchanged.
func RemoveAccents(s string) string {
	if hasUndecomposableScript(s) {
		return s
	}

	s = letterReplacer.Replace(s)
	s = norm.NFKD.String(s)

	// Fast path: nothing to strip.
	if strings.IndexFunc(s, isCombiningMark) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isCombiningMark(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatTheme returns the canonical key of s: accents removed, lowercased,
// trimmed and with every whitespace character removed.
func FormatTheme(s string) string {
	s = strings.ToLower(RemoveAccents(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Lower lowercases s one rune at a time, so the rune count never changes.
func Lower(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// StripSpaces removes every space character from s.
func StripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func isCombiningMark(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

func hasUndecomposableScript(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
			return true
		case r >= 0x3040 && r <= 0x30FF: // Hiragana and Katakana
			return true
		case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
			return true
		}
	}
	return false
}
