// Package cmd contains all CLI commands for the gtb tool.
package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/gtb/internal/clipboard"
	"github.com/f3rmion/gtb/internal/config"
	"github.com/f3rmion/gtb/internal/corpus"
	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/logging"
	"github.com/f3rmion/gtb/internal/search"
	"github.com/f3rmion/gtb/internal/shortcut"
	"github.com/f3rmion/gtb/internal/store"
	"github.com/f3rmion/gtb/internal/theme"
	"github.com/f3rmion/gtb/internal/tui"
)

var (
	cfgDir  string
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gtb",
	Short: "Guess The Build - a theme trainer",
	Long: `gtb trains you to guess build themes from a few revealed letters.

A round shows a masked theme such as "_a_e" and accepts every theme that
fits the mask. Hints reveal more letters of a chosen answer, and custom
shortcuts let you type "ww" for "world war".

Themes can be looked up by name or translation, or found with letter
patterns in any of the supported languages.

Running 'gtb' without arguments launches the interactive TUI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", "", "config directory (default is $HOME/.config/gtb)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <config-dir>/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("data", "", "theme dataset (.json or .apkg, default is the built-in dataset)")

	viper.BindPFlag("data_file", rootCmd.PersistentFlags().Lookup("data"))
}

// initEnv loads a .env file from the working directory if there is one.
func initEnv() {
	_ = godotenv.Load()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() (string, error) {
	if cfgDir != "" {
		return cfgDir, nil
	}
	return config.GetConfigDir()
}

// env is what a command needs to run. Fields are filled lazily by the
// load helpers.
type env struct {
	dir    string
	cfg    *config.Config
	log    zerolog.Logger
	corpus *corpus.Corpus
	store  store.Store
}

// loadEnv reads the configuration, sets up logging and loads the dataset.
func loadEnv() (*env, error) {
	dir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("finding config dir: %w", err)
	}

	cfg, err := config.Load(viper.GetViper(), dir, cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	c, err := loadCorpus(cfg.DataFile)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("config_dir", dir).
		Str("data_file", cfg.DataFile).
		Int("themes", c.Size()).
		Msg("dataset loaded")

	return &env{dir: dir, cfg: cfg, log: log, corpus: c}, nil
}

func loadCorpus(path string) (*corpus.Corpus, error) {
	if path == "" {
		return corpus.Default()
	}
	c, err := corpus.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading dataset %s: %w", path, err)
	}
	return c, nil
}

// openStore opens the settings database, creating its directory.
func (e *env) openStore() error {
	if err := os.MkdirAll(filepath.Dir(e.cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	st, err := store.OpenSQLite(e.cfg.DBPath)
	if err != nil {
		return err
	}
	e.store = st
	return nil
}

func (e *env) close() {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.log.Warn().Err(err).Msg("closing store")
	}
}

// profile reads the stored profile on top of the configured defaults.
func (e *env) profile(ctx context.Context) (store.Profile, error) {
	defaults := e.cfg.Game.Settings()
	if e.store == nil {
		return store.Profile{Settings: defaults}, nil
	}
	return store.LoadProfile(ctx, e.store, defaults)
}

// newSession builds a session over items with custom shortcuts consulted
// before the dataset's own.
func (e *env) newSession(items []theme.Item, score int, custom *shortcut.Table) *game.Session {
	seed := rand.Uint64()
	engine := hint.New(items, rand.New(rand.NewPCG(seed, seed>>1|1)), hint.WithLogger(e.log))

	return game.NewSession(engine,
		game.WithShortcuts(shortcut.Chain{custom, shortcut.Builtin(items)}),
		game.WithRoundTime(e.cfg.Game.RoundSeconds),
		game.WithScore(score),
		game.WithLogger(e.log),
	)
}

func (e *env) newIndex(items []theme.Item) *search.Index {
	return search.NewIndex(items,
		search.WithCacheSize(e.cfg.Search.CacheSize),
		search.WithLogger(e.log),
	)
}

// runTUI launches the interactive TUI.
func runTUI(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	if err := config.EnsureConfigDir(e.dir); err != nil {
		return err
	}
	if err := e.openStore(); err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	p, err := e.profile(ctx)
	if err != nil {
		return err
	}
	custom := shortcut.Parse(p.Shortcuts)

	// Log lines would tear the alt screen.
	e.log = e.log.Level(zerolog.Disabled)

	return tui.Run(tui.Deps{
		Corpus:    e.corpus,
		Store:     e.store,
		Settings:  p.Settings,
		Score:     p.Score,
		Shortcuts: custom,
		Clipboard: clipboard.System{},
		PageSize:  e.cfg.Search.PageSize,
		NewSession: func(items []theme.Item, score int) *game.Session {
			return e.newSession(items, score, custom)
		},
		NewIndex:   e.newIndex,
		ConfigPath: filepath.Join(e.dir, config.FileName),
		DataDir:    e.dir,
		DataFile:   e.cfg.DataFile,
		Log:        e.log,
	})
}
