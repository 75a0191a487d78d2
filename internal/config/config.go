// Package config handles loading and saving user configuration for gtb.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/theme"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

const (
	// FileName is the config file inside the config directory.
	FileName = "config.yaml"
	// EnvPrefix prefixes every environment override, e.g. GTB_GAME_LANGUAGE.
	EnvPrefix = "GTB"
)

// Config holds all user configuration.
type Config struct {
	DataFile string       `yaml:"data_file" mapstructure:"data_file"` // Empty selects the embedded dataset
	DBPath   string       `yaml:"db_path" mapstructure:"db_path"`
	Log      LogConfig    `yaml:"log" mapstructure:"log"`
	Game     GameConfig   `yaml:"game" mapstructure:"game"`
	Search   SearchConfig `yaml:"search" mapstructure:"search"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // zerolog level name
	Format string `yaml:"format" mapstructure:"format"` // "console" or "json"
}

// GameConfig holds the defaults of a trainer round.
type GameConfig struct {
	RoundSeconds int    `yaml:"round_seconds" mapstructure:"round_seconds"`
	Difficulty   int    `yaml:"difficulty" mapstructure:"difficulty"`
	HintLength   int    `yaml:"hint_length" mapstructure:"hint_length"`
	Language     string `yaml:"language" mapstructure:"language"`
	Shortcuts    bool   `yaml:"shortcuts" mapstructure:"shortcuts"`
}

// SearchConfig tunes the search commands.
type SearchConfig struct {
	PageSize  int `yaml:"page_size" mapstructure:"page_size"`
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`
}

// Default returns the built-in configuration for a config directory.
func Default(dir string) Config {
	return Config{
		DBPath: filepath.Join(dir, "gtb.db"),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Game: GameConfig{
			RoundSeconds: game.DefaultRoundSeconds,
			Difficulty:   int(hint.Easy),
			HintLength:   2,
			Language:     string(theme.LangDefault),
			Shortcuts:    true,
		},
		Search: SearchConfig{
			PageSize:  50,
			CacheSize: 256,
		},
	}
}

// SetDefaults registers every key of Default(dir) with v so that environment
// overrides apply to keys missing from the config file.
func SetDefaults(v *viper.Viper, dir string) {
	d := Default(dir)
	v.SetDefault("data_file", d.DataFile)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("game.round_seconds", d.Game.RoundSeconds)
	v.SetDefault("game.difficulty", d.Game.Difficulty)
	v.SetDefault("game.hint_length", d.Game.HintLength)
	v.SetDefault("game.language", d.Game.Language)
	v.SetDefault("game.shortcuts", d.Game.Shortcuts)
	v.SetDefault("search.page_size", d.Search.PageSize)
	v.SetDefault("search.cache_size", d.Search.CacheSize)
}

// Load reads the configuration from dir (or from file when set), the
// environment and the defaults, in that order of precedence after any flags
// already bound to v.
func Load(v *viper.Viper, dir, file string) (*Config, error) {
	SetDefaults(v, dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var problems []string

	if _, err := hint.ParseDifficulty(c.Game.Difficulty); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Game.HintLength < 1 {
		problems = append(problems, fmt.Sprintf("hint length must be at least 1 (got %d)", c.Game.HintLength))
	}
	if lang, ok := theme.ParseLanguage(c.Game.Language); !ok || !lang.Playable() {
		problems = append(problems, fmt.Sprintf("unknown or unplayable language %q", c.Game.Language))
	}
	if c.Game.RoundSeconds < 1 {
		problems = append(problems, fmt.Sprintf("round seconds must be at least 1 (got %d)", c.Game.RoundSeconds))
	}
	if c.Search.PageSize < 1 {
		problems = append(problems, fmt.Sprintf("page size must be at least 1 (got %d)", c.Search.PageSize))
	}
	if c.Search.CacheSize < 0 {
		problems = append(problems, fmt.Sprintf("cache size must not be negative (got %d)", c.Search.CacheSize))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log format must be console or json (got %q)", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Settings converts the game defaults into round settings.
func (g GameConfig) Settings() game.Settings {
	lang, _ := theme.ParseLanguage(g.Language)
	return game.Settings{
		Difficulty:       hint.Difficulty(g.Difficulty),
		RevealCount:      g.HintLength,
		Language:         lang,
		ShortcutsEnabled: g.Shortcuts,
	}
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gtb"), nil
}

// EnsureConfigDir creates dir if it doesn't exist.
func EnsureConfigDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return nil
}
