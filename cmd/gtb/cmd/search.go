package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gtb/internal/search"
	"github.com/f3rmion/gtb/internal/theme"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Look up themes by name or translation",
	Long: `Look up themes whose name or any translation contains the query.

Matching ignores case, accents and spaces. Themes named exactly like the
query are listed first, then themes whose name contains it, then themes
that only match through a translation.

Examples:
  gtb search castle
  gtb search --exact "world war"
  gtb search burg --page 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchExact bool
	searchPage  int
	searchCopy  bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolVarP(&searchExact, "exact", "e", false, "match whole names only")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "result page")
	searchCmd.Flags().BoolVarP(&searchCopy, "copy", "c", false, "copy the matching themes to the clipboard")
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results := e.newIndex(e.corpus.Items()).Search(query, searchExact)
	out := cmd.OutOrStdout()

	if len(results) == 0 {
		fmt.Fprintf(out, "No themes match %q\n", query)
		return nil
	}

	items, pages := search.Paginate(results, searchPage, e.cfg.Search.PageSize)
	if len(items) == 0 {
		return fmt.Errorf("page %d out of range (1-%d)", searchPage, pages)
	}

	highlight := func(_ theme.Language, text string) string {
		return colorSpans(search.HighlightQuery(text, query))
	}
	for i := range items {
		it := &items[i]
		printItem(out, it, colorSpans(search.HighlightQuery(it.Theme, query)), highlight)
	}
	printPage(out, len(results), searchPage, pages)

	if searchCopy {
		return copyThemes(out, results)
	}
	return nil
}
