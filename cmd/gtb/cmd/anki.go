package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gtb/internal/anki"
	"github.com/f3rmion/gtb/internal/search"
	"github.com/f3rmion/gtb/internal/theme"
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Work with Anki decks",
	Long: `Export themes as an Anki deck, or inspect a deck before using it as a
dataset with --data deck.apkg.

A deck holds one note per theme with the fields ID, Theme, Shortcut and
one field per language code.`,
}

var ankiExportCmd = &cobra.Command{
	Use:   "export <file.apkg>",
	Short: "Write the themes to an Anki deck",
	Long: `Write the themes to a new Anki deck.

Examples:
  gtb anki export themes.apkg
  gtb anki export german.apkg --lang de --name "GTB Deutsch"
  gtb anki export castles.apkg --query castle`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiExport,
}

var ankiInspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Inspect an Anki deck",
	Long: `Inspect an Anki .apkg file to see its decks, note types and a few
sample notes.

Example:
  gtb anki inspect themes.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiInspect,
}

var (
	ankiExportLangs  []string
	ankiExportName   string
	ankiExportQuery  string
	ankiInspectLimit int
)

func init() {
	rootCmd.AddCommand(ankiCmd)
	ankiCmd.AddCommand(ankiExportCmd)
	ankiCmd.AddCommand(ankiInspectCmd)

	ankiExportCmd.Flags().StringSliceVarP(&ankiExportLangs, "lang", "l", nil, "languages to include (default all)")
	ankiExportCmd.Flags().StringVar(&ankiExportName, "name", anki.DefaultDeckName, "deck name")
	ankiExportCmd.Flags().StringVarP(&ankiExportQuery, "query", "q", "", "only export themes matching this search")

	ankiInspectCmd.Flags().IntVarP(&ankiInspectLimit, "limit", "n", 5, "Number of sample notes to show")
}

func runAnkiExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !strings.EqualFold(filepath.Ext(path), ".apkg") {
		return fmt.Errorf("deck file must end in .apkg: %s", path)
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	opts := []anki.DeckOption{anki.WithDeckName(ankiExportName)}
	if len(ankiExportLangs) > 0 {
		var langs []theme.Language
		for _, code := range ankiExportLangs {
			l, ok := theme.ParseLanguage(code)
			if !ok || l.IsDefault() {
				return fmt.Errorf("unknown language %q", code)
			}
			langs = append(langs, l)
		}
		opts = append(opts, anki.WithLanguages(langs...))
	}

	items := e.corpus.Items()
	if ankiExportQuery != "" {
		items = search.NewIndex(items).Search(ankiExportQuery, false)
		if len(items) == 0 {
			return fmt.Errorf("no themes match %q", ankiExportQuery)
		}
	}

	if err := anki.WriteDeck(path, items, opts...); err != nil {
		return fmt.Errorf("writing deck: %w", err)
	}
	e.log.Debug().Str("path", path).Int("notes", len(items)).Msg("deck written")

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("reopening deck: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), pkg.Summary())
	return nil
}

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Opening: %s\n\n", path)

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}

	fmt.Fprint(out, pkg.Summary())
	fmt.Fprintln(out)

	if len(pkg.Notes) == 0 {
		return nil
	}

	fmt.Fprintf(out, "Sample notes (first %d):\n", min(ankiInspectLimit, len(pkg.Notes)))
	for _, note := range pkg.Notes[:min(ankiInspectLimit, len(pkg.Notes))] {
		fmt.Fprintf(out, "\n  Note %d:\n", note.ID)
		for _, name := range pkg.FieldNames(note) {
			value := pkg.FieldValue(note, name)
			if value == "" {
				continue
			}
			fmt.Fprintf(out, "    %s: %s\n", name, value)
		}
	}

	items, err := pkg.Items()
	if err != nil {
		fmt.Fprintf(out, "\nNot usable as a dataset: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "\nUsable as a dataset: %d themes\n", len(items))
	return nil
}
