package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gtb/internal/search"
	"github.com/f3rmion/gtb/internal/theme"
)

var patternCmd = &cobra.Command{
	Use:   "pattern [lang=]<pattern>...",
	Short: "Find themes by letter pattern",
	Long: `Find themes whose text fits every given pattern.

A pattern has a fixed length. '_' stands for one letter, a number of one
or two digits for that many letters, '-' for a space. A trailing '!' lets
the placeholders match spaces too. Prefix a pattern with a language
code to match a translation instead of the theme.

Examples:
  gtb pattern 3a4
  gtb pattern t_n_ de=3a4
  gtb pattern --share fr=m5
  gtb pattern --decode '[{"l":"de","p":"3a4"}]'`,
	RunE: runPattern,
}

var (
	patternShare  bool
	patternDecode string
	patternPage   int
	patternCopy   bool
)

func init() {
	rootCmd.AddCommand(patternCmd)

	patternCmd.Flags().BoolVar(&patternShare, "share", false, "print the conditions in their shareable form")
	patternCmd.Flags().StringVar(&patternDecode, "decode", "", "read the conditions from their shareable form")
	patternCmd.Flags().IntVarP(&patternPage, "page", "p", 1, "result page")
	patternCmd.Flags().BoolVarP(&patternCopy, "copy", "c", false, "copy the matching themes to the clipboard")
}

func runPattern(cmd *cobra.Command, args []string) error {
	conds, err := patternConditions(args)
	if err != nil {
		return err
	}
	if len(conds) == 0 {
		return fmt.Errorf("no pattern given")
	}

	out := cmd.OutOrStdout()
	if patternShare {
		s, err := search.EncodeConditions(conds)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
		return nil
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	results := e.newIndex(e.corpus.Items()).PatternSearch(conds)
	if len(results) == 0 {
		fmt.Fprintln(out, "No themes fit these patterns")
		return nil
	}

	items, pages := search.Paginate(results, patternPage, e.cfg.Search.PageSize)
	if len(items) == 0 {
		return fmt.Errorf("page %d out of range (1-%d)", patternPage, pages)
	}

	byLang := make(map[theme.Language]search.Condition, len(conds))
	for _, c := range conds {
		byLang[c.Language] = c
	}
	highlight := func(l theme.Language, text string) string {
		if c, ok := byLang[l]; ok {
			return colorSpans(search.Highlight(text, c))
		}
		return text
	}

	for i := range items {
		it := &items[i]
		title := it.Theme
		if c, ok := byLang[theme.LangDefault]; ok {
			title = colorSpans(search.Highlight(it.Theme, c))
		}
		printItem(out, it, title, highlight)
	}
	printPage(out, len(results), patternPage, pages)

	if patternCopy {
		return copyThemes(out, results)
	}
	return nil
}

// patternConditions reads the conditions from --decode followed by args.
func patternConditions(args []string) ([]search.Condition, error) {
	var conds []search.Condition
	if patternDecode != "" {
		decoded, err := search.DecodeConditions(patternDecode)
		if err != nil {
			return nil, err
		}
		conds = append(conds, decoded...)
	}
	for _, arg := range args {
		c, err := search.ParseCondition(arg)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}
