// Package clipboard copies search results to the system clipboard.
package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/f3rmion/gtb/internal/theme"
)

// ErrUnavailable is returned when no clipboard utility is installed.
var ErrUnavailable = errors.New("clipboard not available")

// Writer receives copied text.
type Writer interface {
	Write(text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// Write copies text to the system clipboard.
func (System) Write(text string) error {
	if !Available() {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Available checks if clipboard functionality is available.
func Available() bool {
	return !clipboard.Unsupported
}

// CopyThemes writes the themes of items, one per line.
func CopyThemes(w Writer, items []theme.Item) error {
	return w.Write(FormatThemes(items))
}

// FormatThemes joins the themes of items with newlines.
func FormatThemes(items []theme.Item) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = it.Theme
	}
	return strings.Join(lines, "\n")
}

// FormatItem renders an item with its translations in language order.
func FormatItem(it *theme.Item) string {
	var b strings.Builder
	b.WriteString(it.Theme)
	for _, l := range it.SortedLanguages() {
		t := it.Translations[l].Translation
		if t == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(string(l))
		b.WriteString(": ")
		b.WriteString(t)
	}
	return b.String()
}
