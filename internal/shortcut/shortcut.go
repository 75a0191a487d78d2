// Package shortcut maps short aliases typed by a player to the answers they
// stand for.
//
// Custom shortcuts are written one per line as
//
//	key = value one, value two
//
// Lines starting with '#' and lines without '=' are ignored. Matching is
// case-insensitive.
package shortcut

import (
	"slices"
	"sort"
	"strings"

	"github.com/f3rmion/gtb/internal/theme"
)

// Provider resolves a typed word to the answers it abbreviates.
type Provider interface {
	Lookup(word string) []string
}

// Table is a parsed set of shortcuts.
type Table struct {
	entries map[string][]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string][]string)}
}

// Parse reads shortcut definitions from text. Malformed lines are skipped and
// a later definition of the same key replaces the earlier one.
func Parse(text string) *Table {
	t := NewTable()
	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		t.entries[key] = splitValues(parts[1])
	}
	return t
}

func splitValues(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Set defines key as a shortcut for values, replacing any previous entry.
func (t *Table) Set(key string, values ...string) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return
	}
	var vs []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !slices.Contains(vs, v) {
			vs = append(vs, v)
		}
	}
	t.entries[key] = vs
}

// Lookup returns the answers key stands for, or nil.
func (t *Table) Lookup(word string) []string {
	if t == nil {
		return nil
	}
	return t.entries[strings.ToLower(strings.TrimSpace(word))]
}

// Len returns the number of keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Keys returns the defined keys in sorted order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the table in the text format accepted by Parse.
func (t *Table) String() string {
	var b strings.Builder
	for _, k := range t.Keys() {
		b.WriteString(k)
		b.WriteString(" = ")
		b.WriteString(strings.Join(t.entries[k], ", "))
		b.WriteByte('\n')
	}
	return b.String()
}

// Builtin collects the shortcuts carried by the corpus. An item's alias
// stands for its theme and every translation.
func Builtin(items []theme.Item) *Table {
	t := NewTable()
	for i := range items {
		it := &items[i]
		if strings.TrimSpace(it.Shortcut) == "" {
			continue
		}

		values := []string{it.Theme}
		for _, l := range it.SortedLanguages() {
			values = append(values, it.Translations[l].Translation)
		}

		key := strings.ToLower(strings.TrimSpace(it.Shortcut))
		t.Set(key, append(t.entries[key], values...)...)
	}
	return t
}

// Chain consults each provider in order and returns the first non-empty
// result.
type Chain []Provider

// Lookup implements Provider.
func (c Chain) Lookup(word string) []string {
	for _, p := range c {
		if p == nil {
			continue
		}
		if vs := p.Lookup(word); len(vs) > 0 {
			return vs
		}
	}
	return nil
}
