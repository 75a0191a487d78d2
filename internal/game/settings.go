package game

import (
	"errors"
	"fmt"

	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/theme"
)

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the per-round options chosen by the player.
type Settings struct {
	Difficulty       hint.Difficulty
	RevealCount      int
	Language         theme.Language
	ShortcutsEnabled bool
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Difficulty:       hint.Easy,
		RevealCount:      2,
		Language:         theme.LangDefault,
		ShortcutsEnabled: true,
	}
}

// Validate checks that s can start a round.
func (s Settings) Validate() error {
	if !s.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %d", ErrInvalidSettings, int(s.Difficulty))
	}
	if s.RevealCount < 0 {
		return fmt.Errorf("%w: reveal count %d", ErrInvalidSettings, s.RevealCount)
	}
	if !s.Language.Playable() {
		return fmt.Errorf("%w: language %q cannot be played", ErrInvalidSettings, s.Language)
	}
	return nil
}
