package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/f3rmion/gtb/internal/normalize"
	"github.com/f3rmion/gtb/internal/theme"
)

const (
	// Wildcard matches any single non-space character.
	Wildcard = '_'
	// spaceSuffix lets wildcards match spaces when it ends a pattern.
	spaceSuffix = "!"
)

var digitRun = regexp.MustCompile(`\d{1,2}`)

// Condition restricts a pattern search to one language. An empty or
// "default" language targets the theme itself.
type Condition struct {
	Language theme.Language `json:"l"`
	Pattern  string         `json:"p"`
}

// Blank reports whether the condition has no pattern and so matches
// everything.
func (c Condition) Blank() bool {
	return strings.TrimSpace(c.Pattern) == ""
}

// Target returns the text of it that the condition is evaluated against.
// It reports false when the item has no translation for the language.
func (c Condition) Target(it *theme.Item) (string, bool) {
	if c.Language.IsDefault() {
		return it.Theme, true
	}
	t, ok := it.Translations[c.Language]
	if !ok {
		return "", false
	}
	return t.Translation, true
}

// Pattern is a compiled fixed-length wildcard pattern.
type Pattern struct {
	runes         []rune
	spaceWildcard bool
}

// Compile expands a raw pattern: a trailing '!' lets wildcards match spaces,
// '-' stands for a space and every run of one or two digits becomes that
// many wildcards. "3a4" compiles to "___a____".
func Compile(raw string) Pattern {
	p := strings.TrimSpace(normalize.Lower(raw))

	var spaces bool
	if strings.HasSuffix(p, spaceSuffix) {
		spaces = true
		p = strings.TrimSpace(strings.TrimSuffix(p, spaceSuffix))
	}

	p = strings.ReplaceAll(p, "-", " ")
	p = digitRun.ReplaceAllStringFunc(p, func(run string) string {
		n, _ := strconv.Atoi(run)
		return strings.Repeat(string(Wildcard), n)
	})
	p = normalize.RemoveAccents(p)

	return Pattern{runes: []rune(p), spaceWildcard: spaces}
}

// String returns the expanded pattern.
func (p Pattern) String() string {
	s := string(p.runes)
	if p.spaceWildcard {
		s += spaceSuffix
	}
	return s
}

// Len returns the number of characters a target must have.
func (p Pattern) Len() int {
	return len(p.runes)
}

// Match reports whether text fits the pattern after accent removal and
// lowercasing.
func (p Pattern) Match(text string) bool {
	t := foldRunes(text)
	if len(t) != len(p.runes) {
		return false
	}
	for i, pr := range p.runes {
		if pr == Wildcard {
			if t[i] == ' ' && !p.spaceWildcard {
				return false
			}
			continue
		}
		if pr != t[i] {
			return false
		}
	}
	return true
}

func foldRunes(s string) []rune {
	return []rune(normalize.Lower(normalize.RemoveAccents(s)))
}

// PatternSearch returns the items satisfying every condition, in corpus
// order. Blank conditions are ignored; when all are blank nothing matches.
func (idx *Index) PatternSearch(conds []Condition) []theme.Item {
	type compiled struct {
		cond Condition
		pat  Pattern
	}

	var active []compiled
	for _, c := range conds {
		if c.Blank() {
			continue
		}
		active = append(active, compiled{cond: c, pat: Compile(c.Pattern)})
	}
	if len(active) == 0 {
		return nil
	}

	var out []theme.Item
	for i := range idx.items {
		it := &idx.items[i]
		ok := true
		for _, c := range active {
			text, found := c.cond.Target(it)
			if !found || !c.pat.Match(text) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, *it)
		}
	}

	idx.log.Debug().Int("conditions", len(active)).Int("results", len(out)).Msg("pattern search")
	return out
}
