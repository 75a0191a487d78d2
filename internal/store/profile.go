package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/theme"
)

// Profile is the typed view of the stored settings.
type Profile struct {
	Settings  game.Settings
	Score     int
	Shortcuts string // custom shortcut definitions
}

// LoadProfile reads the profile from kv. Missing or malformed values fall
// back to defaults.
func LoadProfile(ctx context.Context, kv KV, defaults game.Settings) (Profile, error) {
	p := Profile{Settings: defaults}

	get := func(key string) (string, bool, error) {
		v, err := kv.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("loading %s: %w", key, err)
		}
		return v, true, nil
	}

	if v, ok, err := get(KeyScore); err != nil {
		return p, err
	} else if ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Score = n
		}
	}

	if v, ok, err := get(KeyPoint); err != nil {
		return p, err
	} else if ok {
		if n, err := strconv.Atoi(v); err == nil {
			if d, err := hint.ParseDifficulty(n); err == nil {
				p.Settings.Difficulty = d
			}
		}
	}

	if v, ok, err := get(KeyHintLength); err != nil {
		return p, err
	} else if ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			p.Settings.RevealCount = n
		}
	}

	if v, ok, err := get(KeyEnableShortcut); err != nil {
		return p, err
	} else if ok {
		if b, err := strconv.ParseBool(v); err == nil {
			p.Settings.ShortcutsEnabled = b
		}
	}

	if v, ok, err := get(KeyLanguage); err != nil {
		return p, err
	} else if ok {
		if lang, valid := theme.ParseLanguage(v); valid && lang.Playable() {
			p.Settings.Language = lang
		}
	}

	if v, ok, err := get(KeyCustomShortcuts); err != nil {
		return p, err
	} else if ok {
		p.Shortcuts = v
	}

	return p, nil
}

// SaveSettings stores the round settings.
func SaveSettings(ctx context.Context, kv KV, s game.Settings) error {
	values := map[string]string{
		KeyPoint:          strconv.Itoa(int(s.Difficulty)),
		KeyHintLength:     strconv.Itoa(s.RevealCount),
		KeyEnableShortcut: strconv.FormatBool(s.ShortcutsEnabled),
		KeyLanguage:       string(s.Language),
	}
	for _, key := range Keys {
		v, ok := values[key]
		if !ok {
			continue
		}
		if err := kv.Set(ctx, key, v); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return nil
}

// SaveScore stores the score.
func SaveScore(ctx context.Context, kv KV, score int) error {
	if err := kv.Set(ctx, KeyScore, strconv.Itoa(score)); err != nil {
		return fmt.Errorf("saving score: %w", err)
	}
	return nil
}

// SaveShortcuts stores the custom shortcut definitions.
func SaveShortcuts(ctx context.Context, kv KV, text string) error {
	if err := kv.Set(ctx, KeyCustomShortcuts, text); err != nil {
		return fmt.Errorf("saving shortcuts: %w", err)
	}
	return nil
}

// CanonicalValue validates value for key and returns the form it is stored
// in. Booleans are stored as "true" or "false".
func CanonicalValue(key, value string) (string, error) {
	if err := ValidateValue(key, value); err != nil {
		return "", err
	}
	if key == KeyEnableShortcut {
		b, _ := strconv.ParseBool(value)
		return strconv.FormatBool(b), nil
	}
	return value, nil
}

// ValidateValue checks a raw value before it is stored under key.
func ValidateValue(key, value string) error {
	switch key {
	case KeyScore:
		if n, err := strconv.Atoi(value); err != nil || n < 0 {
			return errors.New("score must be a non-negative integer")
		}
	case KeyPoint:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.New("point must be an integer")
		}
		if _, err := hint.ParseDifficulty(n); err != nil {
			return err
		}
	case KeyHintLength:
		if n, err := strconv.Atoi(value); err != nil || n < 1 {
			return errors.New("hint_length must be a positive integer")
		}
	case KeyEnableShortcut:
		if _, err := strconv.ParseBool(value); err != nil {
			return errors.New("enable_shortcut must be true or false")
		}
	case KeyLanguage:
		if lang, ok := theme.ParseLanguage(value); !ok || !lang.Playable() {
			return fmt.Errorf("unknown or unplayable language %q", value)
		}
	case KeyCustomShortcuts:
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
