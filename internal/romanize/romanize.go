// Package romanize renders Chinese translations as Hanyu Pinyin.
package romanize

import (
	"strconv"
	"strings"
	"unicode"

	gopinyin "github.com/mozillazg/go-pinyin"

	"github.com/f3rmion/gtb/internal/theme"
)

// Applies reports whether translations in lang can be romanized.
func Applies(lang theme.Language) bool {
	return lang == theme.LangChineseS || lang == theme.LangChineseT
}

// Romanizer converts Han characters to pinyin.
type Romanizer struct {
	args gopinyin.Args
}

// New creates a romanizer using the most common reading of each character.
func New() *Romanizer {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone // Returns tone marks: zhōng
	return &Romanizer{args: args}
}

// Syllables returns one token per Han character. Runs of other non-space
// characters are kept as single tokens.
func (r *Romanizer) Syllables(s string) []string {
	var (
		out   []string
		other strings.Builder
	)
	flush := func() {
		if other.Len() > 0 {
			out = append(out, other.String())
			other.Reset()
		}
	}

	for _, c := range s {
		switch {
		case unicode.Is(unicode.Han, c):
			flush()
			readings := gopinyin.Pinyin(string(c), r.args)
			if len(readings) == 0 || len(readings[0]) == 0 {
				out = append(out, string(c))
				continue
			}
			out = append(out, readings[0][0])
		case unicode.IsSpace(c):
			flush()
		default:
			other.WriteRune(c)
		}
	}
	flush()
	return out
}

// Pinyin returns s with tone marks, e.g. "shuǐ mǔ" for 水母.
func (r *Romanizer) Pinyin(s string) string {
	return strings.Join(r.Syllables(s), " ")
}

// Plain returns s without tone marks, e.g. "shui mu".
func (r *Romanizer) Plain(s string) string {
	syl := r.Syllables(s)
	for i, p := range syl {
		_, syl[i] = SplitTone(p)
	}
	return strings.Join(syl, " ")
}

// Numbered returns s with tone numbers, e.g. "shui3 mu3". Syllables
// without a tone mark get the neutral tone 5.
func (r *Romanizer) Numbered(s string) string {
	syl := r.Syllables(s)
	for i, p := range syl {
		if !isPinyin(p) {
			continue
		}
		tone, base := SplitTone(p)
		syl[i] = base + strconv.Itoa(tone)
	}
	return strings.Join(syl, " ")
}

var toneMarks = map[rune]struct {
	base rune
	tone int
}{
	'ā': {'a', 1}, 'á': {'a', 2}, 'ǎ': {'a', 3}, 'à': {'a', 4},
	'ē': {'e', 1}, 'é': {'e', 2}, 'ě': {'e', 3}, 'è': {'e', 4},
	'ī': {'i', 1}, 'í': {'i', 2}, 'ǐ': {'i', 3}, 'ì': {'i', 4},
	'ō': {'o', 1}, 'ó': {'o', 2}, 'ǒ': {'o', 3}, 'ò': {'o', 4},
	'ū': {'u', 1}, 'ú': {'u', 2}, 'ǔ': {'u', 3}, 'ù': {'u', 4},
	'ǖ': {'ü', 1}, 'ǘ': {'ü', 2}, 'ǚ': {'ü', 3}, 'ǜ': {'ü', 4},
}

// SplitTone removes the tone mark of a syllable and returns its tone
// number (1-4, or 5 for the neutral tone).
func SplitTone(syllable string) (int, string) {
	tone := 0
	var b strings.Builder
	for _, c := range syllable {
		if m, ok := toneMarks[c]; ok {
			b.WriteRune(m.base)
			tone = m.tone
			continue
		}
		b.WriteRune(c)
	}
	if tone == 0 {
		tone = 5
	}
	return tone, b.String()
}

func isPinyin(s string) bool {
	for _, c := range s {
		if _, ok := toneMarks[c]; ok {
			continue
		}
		if c == 'ü' || (c >= 'a' && c <= 'z') {
			continue
		}
		return false
	}
	return s != ""
}
