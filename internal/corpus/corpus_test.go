package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gtb/internal/anki"
	"github.com/f3rmion/gtb/internal/theme"
)

const sample = `[
  {"id": 7, "theme": "Jellyfish", "shortcut": null, "translations": {
    "de": {"translation": "Qualle", "is_approved": true, "approved_at": "2024-11-02T10:15:00Z"},
    "fr": {"translation": "Méduse", "is_approved": false, "approved_at": null}
  }},
  {"id": 8, "theme": "", "translations": {}},
  {"id": 9, "theme": "Tent", "shortcut": "T",
   "multiwords": [{"multiword": "Camping Tent", "occurrences": [{"theme": "Camp", "reference": "3"}]}]}
]`

func TestLoad(t *testing.T) {
	t.Parallel()

	c, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Size(), "items with an empty theme are skipped")

	jelly, ok := c.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, "Jellyfish", jelly.Theme)
	assert.Equal(t, "Qualle", jelly.Translations[theme.LangGerman].Translation)
	require.NotNil(t, jelly.Translations[theme.LangGerman].ApprovedAt)
	assert.Nil(t, jelly.Translations[theme.LangFrench].ApprovedAt)

	tent, ok := c.Lookup(9)
	require.True(t, ok)
	assert.Equal(t, "T", tent.Shortcut)
	assert.NotNil(t, tent.Translations, "missing translations become an empty map")
	require.Len(t, tent.Multiwords, 1)
	assert.Equal(t, "Camp", tent.Multiwords[0].Occurrences[0].Theme)

	_, ok = c.Lookup(8)
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader(`{not json`))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`[]`))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestStats(t *testing.T) {
	t.Parallel()

	c, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	s := c.Stats()
	assert.Equal(t, 2, s.Themes)
	assert.Equal(t, 2, s.Translations)
}

func TestLoadFile_ReadsVersions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "themes.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "versions.json"), []byte(`{"last_updated":"2025-01-31"}`), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31", c.LastUpdated())
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)
	assert.Greater(t, c.Size(), 0)
	assert.NotEmpty(t, c.LastUpdated())

	var found bool
	for _, it := range c.Items() {
		if it.Theme == "Jellyfish" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestLoadFile_AnkiDeck(t *testing.T) {
	t.Parallel()

	c, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "themes.apkg")
	require.NoError(t, anki.WriteDeck(path, c.Items()))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c.Size(), loaded.Size())

	it, ok := loaded.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, "Jellyfish", it.Theme)
	assert.Equal(t, "Qualle", it.Translations[theme.LangGerman].Translation)

	tent, ok := loaded.Lookup(9)
	require.True(t, ok)
	assert.Equal(t, "T", tent.Shortcut)
}
