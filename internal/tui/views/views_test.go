package views

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gtb/internal/corpus"
	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/search"
	"github.com/f3rmion/gtb/internal/shortcut"
	"github.com/f3rmion/gtb/internal/store"
	"github.com/f3rmion/gtb/internal/theme"
)

func item(id int, th string, tr map[theme.Language]string) theme.Item {
	it := theme.Item{ID: id, Theme: th, Translations: map[theme.Language]theme.Translation{}}
	for l, s := range tr {
		it.Translations[l] = theme.Translation{Translation: s}
	}
	return it
}

func fixture() []theme.Item {
	return []theme.Item{
		item(1, "Castle", map[theme.Language]string{theme.LangGerman: "Burg"}),
		item(2, "Tent", map[theme.Language]string{theme.LangGerman: "Zelt"}),
		item(3, "Tune", nil),
		item(4, "Sandcastle", map[theme.Language]string{theme.LangGerman: "Sandburg"}),
	}
}

func keys(s string) []tea.KeyMsg {
	out := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return out
}

func ctrl(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func newSession(t *testing.T) *game.Session {
	t.Helper()
	engine := hint.New(fixture(), rand.New(rand.NewPCG(1, 2)))
	return game.NewSession(engine, game.WithShortcuts(shortcut.Builtin(fixture())))
}

func TestSearchModel_Modes(t *testing.T) {
	t.Parallel()

	m := NewSearchModel(search.NewIndex(fixture()), nil, nil, 10)
	for _, k := range keys("castle") {
		m, _ = m.Update(k)
	}
	require.Len(t, m.results, 2)
	assert.Equal(t, "Castle", m.results[0].Theme)
	assert.Equal(t, "Sandcastle", m.results[1].Theme)

	m, _ = m.Update(ctrl(tea.KeyCtrlT))
	assert.Equal(t, ModeExact, m.mode)
	require.Len(t, m.results, 1)
	assert.Equal(t, "Castle", m.results[0].Theme)

	m, _ = m.Update(ctrl(tea.KeyCtrlT))
	assert.Equal(t, ModePattern, m.mode)
	require.Len(t, m.results, 1, "a pattern without placeholders matches literally")
	assert.Equal(t, "Castle", m.results[0].Theme)
}

func TestSearchModel_PatternConditions(t *testing.T) {
	t.Parallel()

	m := NewSearchModel(search.NewIndex(fixture()), nil, nil, 10)
	m, _ = m.Update(ctrl(tea.KeyCtrlT))
	m, _ = m.Update(ctrl(tea.KeyCtrlT))
	for _, k := range keys("t3 de=z3") {
		m, _ = m.Update(k)
	}

	require.NoError(t, m.err)
	require.Len(t, m.conds, 2)
	require.Len(t, m.results, 1)
	assert.Equal(t, "Tent", m.results[0].Theme)

	for _, k := range keys(" xx=1") {
		m, _ = m.Update(k)
	}
	assert.ErrorIs(t, m.err, search.ErrBadConditions)
	assert.Empty(t, m.results)
}

type recordingClipboard struct {
	text string
}

func (r *recordingClipboard) Write(text string) error {
	r.text = text
	return nil
}

func TestSearchModel_CopyAll(t *testing.T) {
	t.Parallel()

	clip := &recordingClipboard{}
	m := NewSearchModel(search.NewIndex(fixture()), nil, clip, 10)
	for _, k := range keys("castle") {
		m, _ = m.Update(k)
	}

	m, cmd := m.Update(ctrl(tea.KeyCtrlA))
	assert.NotNil(t, cmd)
	assert.Equal(t, "Castle\nSandcastle", clip.text)
	assert.Equal(t, "2 themes", m.copied)
}

func TestPlayModel_RoundLifecycle(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	session := newSession(t)
	m := NewPlayModel(session, st, game.DefaultSettings(), zerolog.Nop())
	assert.False(t, m.Typing())

	m, cmd := m.Update(ctrl(tea.KeyEnter))
	require.NotNil(t, cmd, "a started round schedules a tick")
	assert.True(t, m.Typing())
	assert.Equal(t, game.StatusPlaying, session.Status())

	// A tick for another round is ignored.
	m, cmd = m.Update(tickMsg{round: "stale"})
	assert.Nil(t, cmd)
	assert.Equal(t, game.DefaultRoundSeconds, session.TimeLeft())

	m, cmd = m.Update(tickMsg{round: session.RoundID()})
	assert.NotNil(t, cmd)
	assert.Equal(t, game.DefaultRoundSeconds-1, session.TimeLeft())

	m, cmd = m.Update(ctrl(tea.KeyCtrlG))
	require.NotNil(t, cmd)
	assert.Equal(t, game.StatusTimeout, session.Status())
	assert.False(t, m.Typing())

	msg := cmd()
	assert.Equal(t, RoundSavedMsg{}, msg)

	rounds, err := st.RecentRounds(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, session.RoundID(), rounds[0].ID)
}

func TestPlayModel_Guess(t *testing.T) {
	t.Parallel()

	session := newSession(t)
	m := NewPlayModel(session, nil, game.DefaultSettings(), zerolog.Nop())
	m, _ = m.Update(ctrl(tea.KeyEnter))

	answer := session.Answers()[0]
	for _, k := range keys(answer) {
		m, _ = m.Update(k)
	}
	m, _ = m.Update(ctrl(tea.KeyEnter))

	assert.True(t, session.IsFound(answer))
	assert.Empty(t, m.input.Value())
	assert.False(t, m.flashBad)
}

func TestLearnModel_Languages(t *testing.T) {
	t.Parallel()

	m := NewLearnModel(fixture(), nil, nil, theme.LangGerman)
	assert.Len(t, m.cards, 3)

	m.SetLanguage(theme.LangDefault)
	assert.Len(t, m.cards, 4)

	m.SetItems(fixture()[:1])
	assert.Len(t, m.cards, 1)
}

func TestLanguageCycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, next theme.Language
	}{
		{theme.LangDefault, theme.LangCzech},
		{theme.LangUkrainian, theme.LangChineseS},
		{theme.LangChineseT, theme.LangDefault}, // the complement bucket is skipped
	}
	for _, tt := range tests {
		assert.Equal(t, tt.next, nextLanguage(tt.from), "next of %s", tt.from)
		assert.Equal(t, tt.from, prevLanguage(tt.next), "prev of %s", tt.next)
	}
}

// runCmd executes cmd and flattens batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle runs cmd and feeds the save results back until nothing is left.
func settle(m SettingsModel, cmd tea.Cmd) (SettingsModel, []SettingsChangedMsg) {
	var changed []SettingsChangedMsg
	for cmd != nil {
		var next []tea.Cmd
		for _, msg := range runCmd(cmd) {
			switch msg := msg.(type) {
			case SettingsChangedMsg:
				changed = append(changed, msg)
			case settingsSavedMsg:
				var c tea.Cmd
				m, c = m.Update(msg)
				next = append(next, c)
			}
		}
		cmd = tea.Batch(next...)
	}
	return m, changed
}

func TestSettingsModel_Change(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	m := NewSettingsModel(st, game.DefaultSettings(), shortcut.NewTable(), "")

	m, cmd := m.Update(ctrl(tea.KeyRight))
	require.NotNil(t, cmd)
	assert.Equal(t, hint.Medium, m.settings.Difficulty)
	m, changed := settle(m, cmd)
	require.Len(t, changed, 1)
	assert.Equal(t, hint.Medium, changed[0].Settings.Difficulty)

	m, _ = m.Update(ctrl(tea.KeyDown))
	m, cmd = m.Update(ctrl(tea.KeyLeft))
	assert.Equal(t, 1, m.settings.RevealCount)
	m, _ = settle(m, cmd)

	// Hint length never drops below one.
	m, cmd = m.Update(ctrl(tea.KeyLeft))
	assert.Equal(t, 1, m.settings.RevealCount)
	m, _ = settle(m, cmd)
	assert.True(t, m.saved)

	p, err := store.LoadProfile(t.Context(), st, game.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, hint.Medium, p.Settings.Difficulty)
	assert.Equal(t, 1, p.Settings.RevealCount)
}

func TestSettingsModel_SavesOneAtATime(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	m := NewSettingsModel(st, game.DefaultSettings(), shortcut.NewTable(), "")

	m, first := m.Update(ctrl(tea.KeyRight))
	m, second := m.Update(ctrl(tea.KeyRight))
	assert.Equal(t, hint.Hard, m.settings.Difficulty)
	require.NotNil(t, m.pending, "the second change waits for the first save")

	for _, msg := range runCmd(second) {
		_, isSave := msg.(settingsSavedMsg)
		assert.False(t, isSave, "no save runs while another is in flight")
	}

	var saved []tea.Msg
	for _, msg := range runCmd(first) {
		if _, ok := msg.(settingsSavedMsg); ok {
			saved = append(saved, msg)
		}
	}
	require.Len(t, saved, 1)

	p, err := store.LoadProfile(t.Context(), st, game.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, hint.Medium, p.Settings.Difficulty)

	m, next := m.Update(saved[0])
	require.NotNil(t, next, "the held settings are saved next")
	assert.Nil(t, m.pending)
	assert.False(t, m.saved)

	m, _ = settle(m, next)
	assert.True(t, m.saved)
	assert.False(t, m.saving)

	p, err = store.LoadProfile(t.Context(), st, game.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, hint.Hard, p.Settings.Difficulty)
}

func TestDatasetModel_Listing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.apkg", "A.json", "notes.txt", ".hidden.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	m := NewDatasetModel(dir, "", corpus.Stats{})
	require.NoError(t, m.err)

	var names []string
	for _, e := range m.entries {
		names = append(names, e.name)
	}
	assert.Equal(t, []string{"..", "sub", "A.json", "b.apkg"}, names)

	m, _ = m.Update(ctrl(tea.KeyDown))
	m, _ = m.Update(ctrl(tea.KeyEnter))
	assert.Equal(t, filepath.Join(dir, "sub"), m.dir)
	require.Len(t, m.entries, 1)
	assert.Equal(t, "..", m.entries[0].name)
}

func TestDatasetModel_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "themes.json")
	data := `[{"id":1,"theme":"Castle","translations":{"de":{"translation":"Burg"}}}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	m := NewDatasetModel(dir, "", corpus.Stats{})
	m.selected = 1 // skip ".."
	m, cmd := m.Update(ctrl(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	msg, ok := cmd().(DatasetLoadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, path, msg.Path)
	assert.Equal(t, 1, msg.Corpus.Size())

	m.SetDataset(msg.Path, msg.Corpus.Stats())
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "themes.json")
}

func TestIsDatasetFile(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDatasetFile("deck.APKG"))
	assert.True(t, IsDatasetFile("themes.json"))
	assert.False(t, IsDatasetFile("themes.yaml"))
}
