// Package hint generates masked theme hints and the set of answers each
// mask admits.
//
// A hint is built from one randomly sampled answer-text of the requested
// difficulty bucket. A few non-space characters are revealed, the rest are
// replaced by Hidden, and every candidate of the same shape that agrees with
// the revealed characters becomes an acceptable answer.
package hint

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/f3rmion/gtb/internal/theme"
)

const (
	// Hidden marks a masked character.
	Hidden = '_'

	// DegenerateThreshold is the answer count above which a mask is
	// considered too ambiguous.
	DegenerateThreshold = 25
	// RegenerateChance is the probability of discarding a degenerate mask.
	RegenerateChance = 0.75
	// MaxRegenerations bounds how many times a degenerate mask is redrawn.
	MaxRegenerations = 5
)

// Hint is the outcome of one generation.
type Hint struct {
	Mask    string        // Lowercase mask, spaces preserved
	Answers []string      // Distinct lowercase answer-texts consistent with Mask
	Themes  []*theme.Item // Items whose answer-text is in Answers

	// Regenerations counts discarded degenerate masks.
	Regenerations int
}

// Engine draws hints from a fixed list of items.
type Engine struct {
	items []theme.Item
	rng   *rand.Rand
	log   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for regeneration diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an engine over items. rng supplies every random draw, so a
// seeded source makes generation reproducible.
func New(items []theme.Item, rng *rand.Rand, opts ...Option) *Engine {
	e := &Engine{
		items: items,
		rng:   rng,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type candidate struct {
	item *theme.Item
	key  string // lowercased, trimmed answer-text
}

func (e *Engine) pool(d Difficulty, lang theme.Language) []candidate {
	var out []candidate
	for i := range e.items {
		it := &e.items[i]
		text := it.Text(lang)
		if !d.Contains(len([]rune(text))) {
			continue
		}
		out = append(out, candidate{item: it, key: theme.AnswerKey(text)})
	}
	return out
}

// PoolSize returns how many items fall in the bucket for lang.
func (e *Engine) PoolSize(d Difficulty, lang theme.Language) int {
	return len(e.pool(d, lang))
}

// Generate draws a hint for the difficulty bucket with reveal characters
// shown, using lang to pick each item's answer-text.
//
// An empty pool breaks the caller's contract and panics; use PoolSize to
// check beforehand.
func (e *Engine) Generate(d Difficulty, reveal int, lang theme.Language) Hint {
	pool := e.pool(d, lang)
	if len(pool) == 0 {
		panic(fmt.Sprintf("hint: empty candidate pool for difficulty %d and language %q", d, lang))
	}

	for attempt := 0; ; attempt++ {
		seed := pool[e.rng.IntN(len(pool))].key
		mask := e.buildMask(seed, reveal)
		answers := matchAnswers(mask, pool)

		if len(answers) > DegenerateThreshold && e.rng.Float64() < RegenerateChance && attempt < MaxRegenerations {
			e.log.Debug().
				Str("mask", mask).
				Int("answers", len(answers)).
				Int("attempt", attempt+1).
				Msg("degenerate hint, regenerating")
			continue
		}

		return Hint{
			Mask:          mask,
			Answers:       answers,
			Themes:        themesFor(answers, pool),
			Regenerations: attempt,
		}
	}
}

// buildMask reveals reveal random non-space runes of seed. At least one
// non-space rune always stays hidden.
func (e *Engine) buildMask(seed string, reveal int) string {
	runes := []rune(seed)

	available := make([]int, 0, len(runes))
	for i, r := range runes {
		if r != ' ' {
			available = append(available, i)
		}
	}

	n := reveal
	if n >= len(available) {
		n = len(available) - 1
	}
	n = max(n, 0)

	shown := make(map[int]bool, n)
	for range n {
		j := e.rng.IntN(len(available))
		shown[available[j]] = true
		available = append(available[:j], available[j+1:]...)
	}

	out := make([]rune, len(runes))
	for i, r := range runes {
		switch {
		case r == ' ':
			out[i] = ' '
		case shown[i]:
			out[i] = r
		default:
			out[i] = Hidden
		}
	}
	return strings.TrimSpace(string(out))
}

// Matches reports whether answer has the shape of mask: same length,
// spaces exactly where mask has spaces, and every revealed rune equal.
func Matches(mask, answer string) bool {
	m := []rune(mask)
	a := []rune(answer)
	if len(m) != len(a) {
		return false
	}

	for i := range m {
		switch {
		case m[i] == Hidden:
			if a[i] == ' ' {
				return false
			}
		case m[i] != a[i]:
			return false
		}
	}
	return true
}

func matchAnswers(mask string, pool []candidate) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range pool {
		if _, dup := seen[c.key]; dup {
			continue
		}
		if !Matches(mask, c.key) {
			continue
		}
		seen[c.key] = struct{}{}
		out = append(out, c.key)
	}
	return out
}

func themesFor(answers []string, pool []candidate) []*theme.Item {
	want := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		want[a] = struct{}{}
	}

	var out []*theme.Item
	for _, c := range pool {
		if _, ok := want[c.key]; ok {
			out = append(out, c.item)
		}
	}
	return out
}
