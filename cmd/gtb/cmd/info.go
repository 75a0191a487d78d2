package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/theme"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize the theme dataset",
	Long: `Print the size of the theme dataset, when it was last updated, and
how many themes of each difficulty every language can play.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := e.corpus.Stats()
	fmt.Fprintln(out, headerColor.Sprint("Dataset"))
	fmt.Fprintf(out, "  Themes:       %d\n", st.Themes)
	fmt.Fprintf(out, "  Translations: %d\n", st.Translations)
	if st.LastUpdated != "" {
		fmt.Fprintf(out, "  Updated:      %s\n", st.LastUpdated)
	}
	fmt.Fprintln(out)

	// Pool sizes do not depend on the random source.
	engine := hint.New(e.corpus.Items(), nil)
	levels := []hint.Difficulty{hint.Easy, hint.Medium, hint.Hard}

	t := newTable("Lang", "Name", levels[0].String(), levels[1].String(), levels[2].String())
	for _, l := range append([]theme.Language{theme.LangDefault}, theme.Languages...) {
		if !l.Playable() {
			continue
		}
		row := []string{string(l), l.Name()}
		for _, d := range levels {
			row = append(row, strconv.Itoa(engine.PoolSize(d, l)))
		}
		t.Row(row...)
	}
	fmt.Fprintln(out, t.Render())
	return nil
}
