// Package theme provides the core data types of the translation corpus.
package theme

import (
	"sort"
	"strings"
	"time"
	"unicode"
)

// Language is a translation language code.
type Language string

const (
	LangDefault    Language = "default" // The canonical theme text, not a translation key
	LangCzech      Language = "cs"
	LangDanish     Language = "da"
	LangGerman     Language = "de"
	LangPirate     Language = "en" // Pirate English
	LangSpanish    Language = "es"
	LangFinnish    Language = "fi"
	LangFrench     Language = "fr"
	LangHungarian  Language = "hu"
	LangItalian    Language = "it"
	LangJapanese   Language = "ja"
	LangKorean     Language = "ko"
	LangDutch      Language = "nl"
	LangNorwegian  Language = "no"
	LangPolish     Language = "pl"
	LangPortuguese Language = "pt"
	LangRomanian   Language = "ro"
	LangRussian    Language = "ru"
	LangSwedish    Language = "sv"
	LangTurkish    Language = "tr"
	LangUkrainian  Language = "uk"
	LangChineseS   Language = "zh_cn"
	LangChineseT   Language = "zh_tw"
	LangComplement Language = "co" // Pseudo-language, searchable but never played
)

// Languages lists every translation key in display order.
var Languages = []Language{
	LangCzech, LangDanish, LangGerman, LangPirate, LangSpanish, LangFinnish,
	LangFrench, LangHungarian, LangItalian, LangJapanese, LangKorean, LangDutch,
	LangNorwegian, LangPolish, LangPortuguese, LangRomanian, LangRussian,
	LangSwedish, LangTurkish, LangUkrainian, LangChineseS, LangChineseT,
	LangComplement,
}

var languageNames = map[Language]string{
	LangDefault:    "English",
	LangCzech:      "Čeština",
	LangDanish:     "Dansk",
	LangGerman:     "Deutsch",
	LangPirate:     "Pirate English",
	LangSpanish:    "Español",
	LangFinnish:    "Suomi",
	LangFrench:     "Français",
	LangHungarian:  "Magyar",
	LangItalian:    "Italiano",
	LangJapanese:   "日本語",
	LangKorean:     "한국어",
	LangDutch:      "Nederlands",
	LangNorwegian:  "Norsk",
	LangPolish:     "Polski",
	LangPortuguese: "Português",
	LangRomanian:   "Română",
	LangRussian:    "Русский",
	LangSwedish:    "Svenska",
	LangTurkish:    "Türkçe",
	LangUkrainian:  "Українська",
	LangChineseS:   "简体中文",
	LangChineseT:   "繁體中文",
	LangComplement: "Complement",
}

// ParseLanguage normalizes a user supplied language code.
// An empty string selects the default language.
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LangDefault, true
	}
	l := Language(strings.ReplaceAll(s, "-", "_"))
	_, ok := languageNames[l]
	return l, ok
}

// IsDefault reports whether l selects the canonical theme text.
func (l Language) IsDefault() bool {
	return l == LangDefault || l == ""
}

// Playable reports whether l can be used as a hint language.
// The complement bucket only exists for searching.
func (l Language) Playable() bool {
	if l == LangComplement {
		return false
	}
	_, ok := languageNames[l]
	return ok || l == ""
}

// Name returns the native display name of the language.
func (l Language) Name() string {
	if l == "" {
		return languageNames[LangDefault]
	}
	if n, ok := languageNames[l]; ok {
		return n
	}
	return string(l)
}

// Translation is one localized surface form of a theme.
type Translation struct {
	Translation string     `json:"translation"`
	IsApproved  bool       `json:"is_approved"`
	ApprovedAt  *time.Time `json:"approved_at"`
}

// Occurrence references another theme a multiword appears in.
type Occurrence struct {
	Theme     string `json:"theme"`
	Reference string `json:"reference"`
}

// Multiword is an alternate compound grouping. Informational only.
type Multiword struct {
	Multiword   string       `json:"multiword"`
	Occurrences []Occurrence `json:"occurrences"`
}

// Item is one entry of the corpus. Theme and every translation are
// surface forms of the same concept.
type Item struct {
	ID           int                      `json:"id"`
	Theme        string                   `json:"theme"`
	Shortcut     string                   `json:"shortcut,omitempty"`
	Multiwords   []Multiword              `json:"multiwords,omitempty"`
	Translations map[Language]Translation `json:"translations"`
}

// Text returns the surface form of the item in lang, falling back to the
// theme when the translation is missing or empty.
func (it *Item) Text(lang Language) string {
	if lang.IsDefault() {
		return it.Theme
	}
	if t, ok := it.Translations[lang]; ok && t.Translation != "" {
		return t.Translation
	}
	return it.Theme
}

// Translated returns the translation for lang without falling back.
func (it *Item) Translated(lang Language) (string, bool) {
	if lang.IsDefault() {
		return it.Theme, true
	}
	t, ok := it.Translations[lang]
	if !ok {
		return "", false
	}
	return t.Translation, true
}

// SortedLanguages returns the languages present on the item in the order
// of Languages.
func (it *Item) SortedLanguages() []Language {
	langs := make([]Language, 0, len(it.Translations))
	for l := range it.Translations {
		langs = append(langs, l)
	}
	order := make(map[Language]int, len(Languages))
	for i, l := range Languages {
		order[l] = i
	}
	sort.Slice(langs, func(i, j int) bool {
		oi, iok := order[langs[i]]
		oj, jok := order[langs[j]]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return langs[i] < langs[j]
	})
	return langs
}

// AnswerKey lowercases and trims s rune by rune so the rune count of the
// trimmed text is preserved.
func AnswerKey(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
