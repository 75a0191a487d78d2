// Package search looks up themes by free text and by per-language wildcard
// patterns.
package search

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/f3rmion/gtb/internal/normalize"
	"github.com/f3rmion/gtb/internal/theme"
)

// DefaultCacheSize is the number of free-text queries whose results are kept.
const DefaultCacheSize = 256

type cacheKey struct {
	exact bool
	query string
}

// entry holds the canonical keys of one item.
type entry struct {
	theme        string
	translations []string
}

// Index searches a fixed list of items. It is safe for concurrent use.
type Index struct {
	items   []theme.Item
	entries []entry
	rank    []int // alphabetical position of each item's theme
	cache   *lru.Cache[cacheKey, []int]
	log     zerolog.Logger
}

// Option configures an Index.
type Option func(*indexOptions)

type indexOptions struct {
	cacheSize int
	log       zerolog.Logger
}

// WithCacheSize sets how many query results are cached. Zero disables the
// cache.
func WithCacheSize(n int) Option {
	return func(o *indexOptions) {
		o.cacheSize = n
	}
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *indexOptions) {
		o.log = l
	}
}

// NewIndex precomputes the canonical keys and alphabetical order of items.
func NewIndex(items []theme.Item, opts ...Option) *Index {
	o := indexOptions{cacheSize: DefaultCacheSize, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	idx := &Index{
		items:   items,
		entries: make([]entry, len(items)),
		rank:    make([]int, len(items)),
		log:     o.log,
	}

	for i := range items {
		it := &items[i]
		e := entry{theme: normalize.FormatTheme(it.Theme)}
		for _, l := range it.SortedLanguages() {
			e.translations = append(e.translations, normalize.FormatTheme(it.Translations[l].Translation))
		}
		idx.entries[i] = e
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	col := collate.New(language.English)
	sort.SliceStable(order, func(a, b int) bool {
		return col.CompareString(items[order[a]].Theme, items[order[b]].Theme) < 0
	})
	for pos, i := range order {
		idx.rank[i] = pos
	}

	if o.cacheSize > 0 {
		cache, err := lru.New[cacheKey, []int](o.cacheSize)
		if err == nil {
			idx.cache = cache
		}
	}
	return idx
}

// Len returns the number of indexed items.
func (idx *Index) Len() int {
	return len(idx.items)
}

// Search returns the items whose theme or any translation equals (exact) or
// contains (partial) the query after canonicalization.
//
// Items whose theme equals the query come first. In partial mode items whose
// theme contains the query come next. Ties are ordered alphabetically by
// theme.
func (idx *Index) Search(query string, exact bool) []theme.Item {
	q := normalize.FormatTheme(query)
	if q == "" {
		return nil
	}

	key := cacheKey{exact: exact, query: q}
	if idx.cache != nil {
		if hits, ok := idx.cache.Get(key); ok {
			idx.log.Debug().Str("query", q).Bool("exact", exact).Msg("search cache hit")
			return idx.collect(hits)
		}
	}

	hits := idx.search(q, exact)
	if idx.cache != nil {
		idx.cache.Add(key, hits)
	}
	return idx.collect(hits)
}

func (idx *Index) search(q string, exact bool) []int {
	match := strings.Contains
	if exact {
		match = func(a, b string) bool { return a == b }
	}

	var hits []int
	for i, e := range idx.entries {
		if match(e.theme, q) {
			hits = append(hits, i)
			continue
		}
		for _, t := range e.translations {
			if match(t, q) {
				hits = append(hits, i)
				break
			}
		}
	}

	priority := func(i int) int {
		th := idx.entries[i].theme
		switch {
		case th == q:
			return 0
		case !exact && strings.Contains(th, q):
			return 1
		}
		return 2
	}

	sort.SliceStable(hits, func(a, b int) bool {
		pa, pb := priority(hits[a]), priority(hits[b])
		if pa != pb {
			return pa < pb
		}
		return idx.rank[hits[a]] < idx.rank[hits[b]]
	})
	return hits
}

func (idx *Index) collect(hits []int) []theme.Item {
	if len(hits) == 0 {
		return nil
	}
	out := make([]theme.Item, len(hits))
	for i, h := range hits {
		out[i] = idx.items[h]
	}
	return out
}
