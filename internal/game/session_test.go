package game

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/shortcut"
	"github.com/f3rmion/gtb/internal/theme"
)

func newEngine(seed uint64, list ...theme.Item) *hint.Engine {
	return hint.New(list, rand.New(rand.NewPCG(seed, seed+1)))
}

func item(id int, th string, tr map[theme.Language]string) theme.Item {
	it := theme.Item{ID: id, Theme: th, Translations: map[theme.Language]theme.Translation{}}
	for l, s := range tr {
		it.Translations[l] = theme.Translation{Translation: s}
	}
	return it
}

func settings(d hint.Difficulty, reveal int, lang theme.Language) Settings {
	return Settings{Difficulty: d, RevealCount: reveal, Language: lang, ShortcutsEnabled: true}
}

func TestSession_MixedCaseGuess(t *testing.T) {
	t.Parallel()

	s := NewSession(newEngine(1, item(1, "Jellyfish", nil)))
	require.NoError(t, s.Start(settings(hint.Hard, 2, theme.LangDefault)))

	assert.Equal(t, StatusPlaying, s.Status())
	assert.Equal(t, []string{"jellyfish"}, s.Answers())

	res, err := s.CheckAnswer("  Jellyfish ")
	require.NoError(t, err)
	assert.Equal(t, []string{"jellyfish"}, res.Accepted)
	assert.True(t, res.Complete)
	assert.Equal(t, 3, res.Points)
	assert.Equal(t, StatusWon, s.Status())
	assert.Equal(t, 3, s.Score())
}

func TestSession_ShortcutGuess(t *testing.T) {
	t.Parallel()

	custom := shortcut.Parse("Tavle = Blackboard, Whiteboard")

	s := NewSession(newEngine(2, item(1, "Blackboard", nil)), WithShortcuts(custom))
	require.NoError(t, s.Start(settings(hint.Hard, 1, theme.LangDefault)))

	res, err := s.CheckAnswer("tavle")
	require.NoError(t, err)
	assert.Equal(t, []string{"blackboard"}, res.Accepted)

	off := NewSession(newEngine(2, item(1, "Blackboard", nil)), WithShortcuts(custom))
	st := settings(hint.Hard, 1, theme.LangDefault)
	st.ShortcutsEnabled = false
	require.NoError(t, off.Start(st))

	res, err = off.CheckAnswer("tavle")
	require.NoError(t, err)
	assert.True(t, res.Rejected())
	assert.Empty(t, off.Found())
}

func TestSession_ThemeEquivalence(t *testing.T) {
	t.Parallel()

	jelly := item(1, "Jellyfish", map[theme.Language]string{theme.LangGerman: "Qualle"})
	s := NewSession(newEngine(3, jelly))
	require.NoError(t, s.Start(settings(hint.Medium, 2, theme.LangGerman)))
	require.Equal(t, []string{"qualle"}, s.Answers())

	res, err := s.CheckAnswer("Jellyfishs")
	require.NoError(t, err)
	assert.Equal(t, []string{"qualle"}, res.Accepted, "plural of the English theme is accepted")
}

func TestSession_SpacesIgnored(t *testing.T) {
	t.Parallel()

	s := NewSession(newEngine(4, item(1, "Ice Cream", nil)))
	require.NoError(t, s.Start(settings(hint.Hard, 1, theme.LangDefault)))

	res, err := s.CheckAnswer("icecream")
	require.NoError(t, err)
	assert.True(t, res.Complete)
}

func TestSession_WrongAndEmptyGuesses(t *testing.T) {
	t.Parallel()

	s := NewSession(newEngine(5, item(1, "Tent", nil), item(2, "Tuna", nil)))
	require.NoError(t, s.Start(settings(hint.Easy, 0, theme.LangDefault)))
	before := s.Remaining()

	for _, guess := range []string{"", "   ", "castle"} {
		res, err := s.CheckAnswer(guess)
		require.NoError(t, err)
		assert.True(t, res.Rejected(), "%q", guess)
	}
	assert.Equal(t, before, s.Remaining())
	assert.Equal(t, StatusPlaying, s.Status())
}

func TestSession_PartialProgress(t *testing.T) {
	t.Parallel()

	s := NewSession(newEngine(6, item(1, "Tent", nil), item(2, "Tuna", nil), item(3, "Tank", nil)))
	require.NoError(t, s.Start(settings(hint.Easy, 0, theme.LangDefault)))
	require.Len(t, s.Answers(), 3, "an all-hidden mask admits every four letter word")

	res, err := s.CheckAnswer("tuna")
	require.NoError(t, err)
	assert.False(t, res.Complete)
	assert.Zero(t, res.Points)

	found, total := s.Progress()
	assert.Equal(t, 1, found)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"tent", "tank"}, s.Remaining())

	res, err = s.CheckAnswer("tuna")
	require.NoError(t, err)
	assert.True(t, res.Rejected(), "found answers are not candidates again")

	_, _ = s.CheckAnswer("tent")
	res, err = s.CheckAnswer("TANK")
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, 1, s.Score())
}

func TestSession_Reveal(t *testing.T) {
	t.Parallel()

	s := NewSession(newEngine(7, item(1, "Tent", nil), item(2, "Tuna", nil)))
	require.NoError(t, s.Start(settings(hint.Easy, 0, theme.LangDefault)))
	require.Equal(t, "____", s.Mask())

	_, ok := s.RevealState("tent")
	assert.False(t, ok, "no hint requested yet")
	assert.Equal(t, "____", s.MaskFor("tent"))

	m, err := s.RevealMore("tent")
	require.NoError(t, err)
	assert.Equal(t, 3, hint.HiddenCount(m))
	assert.True(t, hint.Matches(m, "tent"))
	assert.Equal(t, "____", s.MaskFor("tuna"), "per-answer masks are independent")

	_, _ = s.RevealMore("tent")
	m, _ = s.RevealMore("tent")
	r, ok := s.RevealState("tent")
	require.True(t, ok)
	assert.True(t, r.Exhausted)
	assert.Equal(t, 1, hint.HiddenCount(m))

	again, err := s.RevealMore("tent")
	require.NoError(t, err)
	assert.Equal(t, m, again)

	_, err = s.RevealMore("castle")
	assert.ErrorIs(t, err, ErrUnknownAnswer)
}

func TestSession_RevealAll(t *testing.T) {
	t.Parallel()

	s := NewSession(newEngine(8, item(1, "Tent", nil), item(2, "Tuna", nil)))
	require.NoError(t, s.Start(settings(hint.Easy, 0, theme.LangDefault)))
	_, _ = s.CheckAnswer("tuna")

	require.NoError(t, s.RevealAll())
	_, ok := s.RevealState("tuna")
	assert.False(t, ok, "found answers are skipped")
	assert.Equal(t, 3, hint.HiddenCount(s.MaskFor("tent")))
}

func TestSession_Countdown(t *testing.T) {
	t.Parallel()

	s := NewSession(newEngine(9, item(1, "Tent", nil)), WithRoundTime(3))
	require.NoError(t, s.Start(settings(hint.Easy, 1, theme.LangDefault)))

	assert.Equal(t, StatusPlaying, s.Tick())
	assert.Equal(t, 2, s.TimeLeft())
	assert.Equal(t, StatusPlaying, s.Tick())
	assert.Equal(t, StatusTimeout, s.Tick())
	assert.Equal(t, 0, s.TimeLeft())
	assert.True(t, s.ShowingAll())

	_, err := s.CheckAnswer("tent")
	assert.ErrorIs(t, err, ErrNotPlaying)
	assert.ErrorIs(t, s.RevealAll(), ErrNotPlaying)
}

func TestSession_TimeoutAndReset(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 11, 2, 10, 0, 0, 0, time.UTC)
	s := NewSession(newEngine(10, item(1, "Tent", nil)),
		WithScore(7),
		WithClock(func() time.Time { return at }),
	)
	assert.Equal(t, DefaultRoundSeconds, s.TimeLeft())

	require.NoError(t, s.Start(settings(hint.Easy, 1, theme.LangDefault)))
	assert.NotEmpty(t, s.RoundID())
	assert.Equal(t, at, s.StartedAt())

	s.Timeout()
	assert.Equal(t, StatusTimeout, s.Status())

	s.Reset()
	assert.Equal(t, StatusStart, s.Status())
	assert.Equal(t, 7, s.Score())
	assert.Empty(t, s.Answers())
	assert.Empty(t, s.RoundID())
	assert.Equal(t, DefaultRoundSeconds, s.TimeLeft())
}

func TestSession_StartErrors(t *testing.T) {
	t.Parallel()

	s := NewSession(newEngine(11, item(1, "Jellyfish", nil)))

	err := s.Start(settings(hint.Easy, 2, theme.LangDefault))
	assert.ErrorIs(t, err, ErrEmptyPool)
	assert.Equal(t, StatusStart, s.Status())

	err = s.Start(settings(hint.Hard, 2, theme.LangComplement))
	assert.ErrorIs(t, err, ErrInvalidSettings)

	err = s.Start(settings(hint.Difficulty(0), 2, theme.LangDefault))
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestSession_Structure(t *testing.T) {
	t.Parallel()

	s := NewSession(newEngine(12, item(1, "Hot Air Balloon", nil)))
	require.NoError(t, s.Start(settings(hint.Hard, 3, theme.LangDefault)))
	assert.Equal(t, "3-3-7", s.Structure())
	require.Len(t, s.Themes(), 1)
	assert.Equal(t, "Hot Air Balloon", s.Themes()[0].Theme)
}
