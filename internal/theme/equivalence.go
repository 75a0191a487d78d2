package theme

import (
	"strings"

	"github.com/f3rmion/gtb/internal/normalize"
)

// Forms returns the canonical keys of the theme and of every translation,
// including the complement bucket.
func (it *Item) Forms() map[string]struct{} {
	forms := make(map[string]struct{}, len(it.Translations)+1)
	forms[normalize.FormatTheme(it.Theme)] = struct{}{}
	for _, t := range it.Translations {
		forms[normalize.FormatTheme(t.Translation)] = struct{}{}
	}
	return forms
}

// IsWorkTheme reports whether word names the same theme as it in any
// language. A trailing "s" is tolerated in both directions, so a plural
// guess matches a singular form and vice versa.
func (it *Item) IsWorkTheme(word string) bool {
	if it == nil {
		return false
	}

	w := normalize.FormatTheme(word)
	forms := it.Forms()

	for _, candidate := range inflections(w) {
		if _, ok := forms[candidate]; ok {
			return true
		}
	}
	return false
}

func inflections(w string) []string {
	singular := strings.TrimSuffix(w, "s")
	return []string{w, singular, w + "s"}
}
