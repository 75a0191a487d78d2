package cmd

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/theme"
)

var hintCmd = &cobra.Command{
	Use:   "hint",
	Short: "Print a masked hint and its answers",
	Long: `Generate one hint the way a round does and print the mask, the
word structure and every theme that fits.

Examples:
  gtb hint
  gtb hint --difficulty 3 --reveal 1
  gtb hint --lang de --seed 42`,
	RunE: runHint,
}

var (
	hintDifficulty int
	hintReveal     int
	hintLang       string
	hintSeed       uint64
	hintAnswers    bool
)

func init() {
	rootCmd.AddCommand(hintCmd)

	hintCmd.Flags().IntVarP(&hintDifficulty, "difficulty", "d", 0, "difficulty 1-3 (default from config)")
	hintCmd.Flags().IntVarP(&hintReveal, "reveal", "r", -1, "letters to reveal (default from config)")
	hintCmd.Flags().StringVarP(&hintLang, "lang", "l", "", "hint language (default from config)")
	hintCmd.Flags().Uint64Var(&hintSeed, "seed", 0, "random seed (0 picks one)")
	hintCmd.Flags().BoolVarP(&hintAnswers, "answers", "a", true, "list the answers")
}

func runHint(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	settings := e.cfg.Game.Settings()
	if hintDifficulty != 0 {
		d, err := hint.ParseDifficulty(hintDifficulty)
		if err != nil {
			return err
		}
		settings.Difficulty = d
	}
	if hintReveal >= 0 {
		settings.RevealCount = hintReveal
	}
	if hintLang != "" {
		lang, ok := theme.ParseLanguage(hintLang)
		if !ok || !lang.Playable() {
			return fmt.Errorf("unknown or unplayable language %q", hintLang)
		}
		settings.Language = lang
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	seed := hintSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	engine := hint.New(e.corpus.Items(), rand.New(rand.NewPCG(seed, seed>>1|1)), hint.WithLogger(e.log))
	if engine.PoolSize(settings.Difficulty, settings.Language) == 0 {
		return fmt.Errorf("no %s themes of difficulty %s", settings.Language.Name(), settings.Difficulty)
	}

	h := engine.Generate(settings.Difficulty, settings.RevealCount, settings.Language)
	e.log.Debug().Uint64("seed", seed).Int("regenerations", h.Regenerations).Msg("hint generated")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Hint:      %s\n", literalColor.Sprint(strings.ToUpper(h.Mask)))
	fmt.Fprintf(out, "Structure: %s\n", hint.Structure(h.Mask))
	fmt.Fprintf(out, "Answers:   %d\n", len(h.Answers))

	if hintAnswers {
		fmt.Fprintln(out)
		for _, a := range h.Answers {
			fmt.Fprintf(out, "  %s\n", a)
		}
	}
	return nil
}
