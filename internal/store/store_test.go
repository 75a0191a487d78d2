package store

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/theme"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "gtb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": db,
	}
}

func TestKV(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, KeyScore)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, KeyScore, "3"))
			require.NoError(t, s.Set(ctx, KeyScore, "5"))

			v, err := s.Get(ctx, KeyScore)
			require.NoError(t, err)
			assert.Equal(t, "5", v)
		})
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	defaults := game.DefaultSettings()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			p, err := LoadProfile(ctx, s, defaults)
			require.NoError(t, err)
			assert.Equal(t, defaults, p.Settings)
			assert.Zero(t, p.Score)

			want := game.Settings{
				Difficulty:       hint.Hard,
				RevealCount:      4,
				Language:         theme.LangDanish,
				ShortcutsEnabled: false,
			}
			require.NoError(t, SaveSettings(ctx, s, want))
			require.NoError(t, SaveScore(ctx, s, 12))
			require.NoError(t, SaveShortcuts(ctx, s, "tavle = blackboard"))

			p, err = LoadProfile(ctx, s, defaults)
			require.NoError(t, err)
			assert.Equal(t, want, p.Settings)
			assert.Equal(t, 12, p.Score)
			assert.Equal(t, "tavle = blackboard", p.Shortcuts)
		})
	}
}

func TestProfile_MalformedFallsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemory()
	for k, v := range map[string]string{
		KeyScore:          "lots",
		KeyPoint:          "7",
		KeyHintLength:     "0",
		KeyLanguage:       "co",
		KeyEnableShortcut: "nope",
	} {
		require.NoError(t, s.Set(ctx, k, v))
	}

	p, err := LoadProfile(ctx, s, game.DefaultSettings())
	require.NoError(t, err)
	assert.Zero(t, p.Score)
	assert.Equal(t, hint.Easy, p.Settings.Difficulty)
	assert.Equal(t, 2, p.Settings.RevealCount)
	assert.Equal(t, theme.LangDefault, p.Settings.Language)
	assert.True(t, p.Settings.ShortcutsEnabled, "an unparsable flag keeps the default")
}

func TestRounds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2024, 11, 2, 10, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i := range 3 {
				require.NoError(t, s.RecordRound(ctx, Round{
					StartedAt:  base.Add(time.Duration(i) * time.Minute),
					Difficulty: hint.Easy,
					Language:   theme.LangDefault,
					Mask:       "t_n_",
					Answers:    []string{"tent", "tune"},
					Found:      []string{"tent"}[:i%2],
					Status:     game.StatusTimeout,
				}))
			}

			got, err := s.RecentRounds(ctx, 2)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.True(t, got[0].StartedAt.Equal(base.Add(2*time.Minute)), "newest first")
			assert.NotEmpty(t, got[0].ID)
			assert.Equal(t, []string{"tent", "tune"}, got[0].Answers)
			assert.Empty(t, got[0].Found)
			assert.Equal(t, []string{"tent"}, got[1].Found)
			assert.Equal(t, game.StatusTimeout, got[1].Status)

			all, err := s.RecentRounds(ctx, 0)
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestRoundFrom(t *testing.T) {
	t.Parallel()

	items := []theme.Item{{ID: 1, Theme: "Tent", Translations: map[theme.Language]theme.Translation{}}}
	engine := hint.New(items, rand.New(rand.NewPCG(1, 2)))
	s := game.NewSession(engine)
	require.NoError(t, s.Start(game.DefaultSettings()))
	_, err := s.CheckAnswer("tent")
	require.NoError(t, err)

	r := RoundFrom(s)
	assert.Equal(t, s.RoundID(), r.ID)
	assert.Equal(t, game.StatusWon, r.Status)
	assert.Equal(t, 1, r.Points)
	assert.Equal(t, []string{"tent"}, r.Found)

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "gtb.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RecordRound(context.Background(), r))

	got, err := db.RecentRounds(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r.ID, got[0].ID)
	assert.Equal(t, r.Mask, got[0].Mask)
}

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key, value string
		ok         bool
	}{
		{KeyScore, "4", true},
		{KeyScore, "-1", false},
		{KeyPoint, "3", true},
		{KeyPoint, "4", false},
		{KeyHintLength, "1", true},
		{KeyHintLength, "x", false},
		{KeyEnableShortcut, "false", true},
		{KeyEnableShortcut, "maybe", false},
		{KeyLanguage, "zh-TW", true},
		{KeyLanguage, "co", false},
		{KeyCustomShortcuts, "anything", true},
		{"colour", "blue", false},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Parallel()
			err := ValidateValue(tt.key, tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestProfile_ShortcutToggle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"false", false},
		{"0", false},
		{"f", false},
		{"FALSE", false},
		{"False", false},
		{"true", true},
		{"1", true},
		{"T", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s := NewMemory()
			require.NoError(t, ValidateValue(KeyEnableShortcut, tt.value))
			require.NoError(t, s.Set(ctx, KeyEnableShortcut, tt.value))

			defaults := game.DefaultSettings()
			defaults.ShortcutsEnabled = !tt.want
			p, err := LoadProfile(ctx, s, defaults)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Settings.ShortcutsEnabled)
		})
	}
}

func TestCanonicalValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key, value, want string
	}{
		{KeyEnableShortcut, "0", "false"},
		{KeyEnableShortcut, "FALSE", "false"},
		{KeyEnableShortcut, "T", "true"},
		{KeyPoint, "2", "2"},
		{KeyLanguage, "de", "de"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Parallel()
			got, err := CanonicalValue(tt.key, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CanonicalValue(KeyEnableShortcut, "maybe")
	assert.Error(t, err)
}
