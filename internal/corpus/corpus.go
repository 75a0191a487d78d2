// Package corpus loads the immutable theme and translation dataset.
package corpus

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/f3rmion/gtb/internal/anki"
	"github.com/f3rmion/gtb/internal/theme"
)

//go:embed data/themes.json data/versions.json
var dataFS embed.FS

// ErrEmpty is returned when a dataset contains no usable items.
var ErrEmpty = errors.New("corpus: dataset is empty")

// Corpus is a read-only list of theme items.
type Corpus struct {
	items       []theme.Item
	byID        map[int]int
	lastUpdated string
}

// Stats summarizes a corpus.
type Stats struct {
	Themes       int
	Translations int
	LastUpdated  string
}

type versions struct {
	LastUpdated string `json:"last_updated"`
}

var (
	defaultOnce   sync.Once
	defaultCorpus *Corpus
	defaultErr    error
)

// Default returns the embedded dataset. It is decoded once.
func Default() (*Corpus, error) {
	defaultOnce.Do(func() {
		data, err := dataFS.ReadFile("data/themes.json")
		if err != nil {
			defaultErr = fmt.Errorf("reading embedded themes: %w", err)
			return
		}
		defaultCorpus, defaultErr = Load(bytes.NewReader(data))
		if defaultErr != nil {
			return
		}

		if raw, err := dataFS.ReadFile("data/versions.json"); err == nil {
			var v versions
			if err := json.Unmarshal(raw, &v); err == nil {
				defaultCorpus.lastUpdated = v.LastUpdated
			}
		}
	})
	return defaultCorpus, defaultErr
}

// LoadFile loads a dataset from a JSON file or an Anki deck (.apkg). A
// versions.json file next to a JSON dataset, when present, supplies the
// last-updated stamp.
func LoadFile(path string) (*Corpus, error) {
	if strings.EqualFold(filepath.Ext(path), ".apkg") {
		items, err := anki.ReadItems(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		return New(items)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening themes file: %w", err)
	}
	defer file.Close()

	c, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if raw, err := os.ReadFile(filepath.Join(filepath.Dir(path), "versions.json")); err == nil {
		var v versions
		if err := json.Unmarshal(raw, &v); err == nil {
			c.lastUpdated = v.LastUpdated
		}
	}

	return c, nil
}

// Load decodes a JSON array of items from r. Items without a theme are
// skipped.
func Load(r io.Reader) (*Corpus, error) {
	var raw []theme.Item
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding themes: %w", err)
	}
	return New(raw)
}

// New builds a corpus from already decoded items.
func New(items []theme.Item) (*Corpus, error) {
	c := &Corpus{
		items: make([]theme.Item, 0, len(items)),
		byID:  make(map[int]int, len(items)),
	}

	for _, it := range items {
		if strings.TrimSpace(it.Theme) == "" {
			continue
		}
		if it.Translations == nil {
			it.Translations = map[theme.Language]theme.Translation{}
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}

	if len(c.items) == 0 {
		return nil, ErrEmpty
	}
	return c, nil
}

// Items returns the items in dataset order. Callers must not modify them.
func (c *Corpus) Items() []theme.Item {
	return c.items
}

// Size returns the number of items.
func (c *Corpus) Size() int {
	return len(c.items)
}

// Lookup returns the item with the given id.
func (c *Corpus) Lookup(id int) (*theme.Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.items[i], true
}

// LastUpdated returns the dataset version stamp, if known.
func (c *Corpus) LastUpdated() string {
	return c.lastUpdated
}

// Stats counts themes and present translations.
func (c *Corpus) Stats() Stats {
	s := Stats{Themes: len(c.items), LastUpdated: c.lastUpdated}
	for i := range c.items {
		s.Translations += len(c.items[i].Translations)
	}
	return s
}
