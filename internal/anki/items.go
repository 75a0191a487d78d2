package anki

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/f3rmion/gtb/internal/theme"
)

// Note type field names besides the language codes.
const (
	FieldID       = "ID"
	FieldTheme    = "Theme"
	FieldShortcut = "Shortcut"
)

// ErrNoThemeField is returned when no note of a deck has a Theme field.
var ErrNoThemeField = errors.New("deck has no Theme field")

// Items converts the notes of p back into theme items. Notes without a
// theme are skipped; a missing or invalid ID is replaced by the note's
// position.
func (p *Package) Items() ([]theme.Item, error) {
	var (
		items    []theme.Item
		hasTheme bool
	)

	for i, note := range p.Notes {
		names := p.FieldNames(note)
		it := theme.Item{Translations: map[theme.Language]theme.Translation{}}

		for _, name := range names {
			value := p.FieldValue(note, name)
			switch {
			case strings.EqualFold(name, FieldTheme):
				hasTheme = true
				it.Theme = value
			case strings.EqualFold(name, FieldID):
				if id, err := strconv.Atoi(value); err == nil {
					it.ID = id
				}
			case strings.EqualFold(name, FieldShortcut):
				it.Shortcut = value
			default:
				lang, ok := theme.ParseLanguage(name)
				if !ok || lang.IsDefault() || value == "" {
					continue
				}
				it.Translations[lang] = theme.Translation{Translation: value}
			}
		}

		if it.Theme == "" {
			continue
		}
		if it.ID == 0 {
			it.ID = i + 1
		}
		items = append(items, it)
	}

	if !hasTheme {
		return nil, fmt.Errorf("reading %s: %w", p.Path, ErrNoThemeField)
	}
	return items, nil
}

// ReadItems opens the deck at path and returns its theme items.
func ReadItems(path string) ([]theme.Item, error) {
	pkg, err := OpenPackage(path)
	if err != nil {
		return nil, err
	}
	return pkg.Items()
}
