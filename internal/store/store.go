// Package store persists player settings, the score, custom shortcuts and
// the history of played rounds.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/theme"
)

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = errors.New("not found")

// Setting keys.
const (
	KeyScore           = "score"
	KeyPoint           = "point"
	KeyHintLength      = "hint_length"
	KeyEnableShortcut  = "enable_shortcut"
	KeyLanguage        = "language"
	KeyCustomShortcuts = "custom_shortcuts"
)

// Keys lists every setting key in display order.
var Keys = []string{KeyScore, KeyPoint, KeyHintLength, KeyEnableShortcut, KeyLanguage, KeyCustomShortcuts}

// KV is a string key/value store.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Round is one finished or abandoned trainer round.
type Round struct {
	ID         string
	StartedAt  time.Time
	Difficulty hint.Difficulty
	Language   theme.Language
	Mask       string
	Answers    []string
	Found      []string
	Status     game.Status
	Points     int
}

// History records played rounds.
type History interface {
	RecordRound(ctx context.Context, r Round) error
	RecentRounds(ctx context.Context, limit int) ([]Round, error)
}

// Store combines settings and history.
type Store interface {
	KV
	History
	Close() error
}

// RoundFrom snapshots the current round of s.
func RoundFrom(s *game.Session) Round {
	r := Round{
		ID:         s.RoundID(),
		StartedAt:  s.StartedAt(),
		Difficulty: s.Settings().Difficulty,
		Language:   s.Settings().Language,
		Mask:       s.Mask(),
		Answers:    s.Answers(),
		Found:      s.Found(),
		Status:     s.Status(),
	}
	if r.Status == game.StatusWon {
		r.Points = r.Difficulty.Points()
	}
	return r
}
