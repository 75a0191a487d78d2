package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/gtb/internal/clipboard"
	"github.com/f3rmion/gtb/internal/search"
	"github.com/f3rmion/gtb/internal/theme"
)

var (
	literalColor  = color.New(color.FgGreen, color.Bold)
	wildcardColor = color.New(color.FgYellow)
	headerColor   = color.New(color.FgCyan, color.Bold)
	mutedColor    = color.New(color.Faint)
)

var tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

// newTable returns a bordered table with the given headers.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Faint(true)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// colorSpans renders highlighted spans for the terminal.
func colorSpans(spans []search.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case search.SpanLiteral:
			b.WriteString(literalColor.Sprint(s.Text))
		case search.SpanWildcard:
			b.WriteString(wildcardColor.Sprint(s.Text))
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// printItem writes one result. Matching translations are highlighted by
// highlight, which may be nil.
func printItem(w io.Writer, it *theme.Item, title string, highlight func(theme.Language, string) string) {
	fmt.Fprint(w, title)
	if it.Shortcut != "" {
		fmt.Fprint(w, mutedColor.Sprintf("  [%s]", it.Shortcut))
	}
	fmt.Fprintln(w)

	for _, l := range it.SortedLanguages() {
		text := it.Translations[l].Translation
		if text == "" {
			continue
		}
		if highlight != nil {
			text = highlight(l, text)
		}
		name := runewidth.FillRight(l.Name(), 14)
		fmt.Fprintf(w, "  %s %s %s\n", mutedColor.Sprint(runewidth.FillRight(string(l), 5)), name, text)
	}
}

// printPage writes the page footer.
func printPage(w io.Writer, total, page, pages int) {
	fmt.Fprintln(w)
	if pages > 1 {
		fmt.Fprintf(w, "%d results, page %d of %d\n", total, page, pages)
		return
	}
	fmt.Fprintf(w, "%d results\n", total)
}

// copyThemes copies the themes of items and reports it on w.
func copyThemes(w io.Writer, items []theme.Item) error {
	if err := clipboard.CopyThemes(clipboard.System{}, items); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	fmt.Fprintf(w, "Copied %d themes to the clipboard\n", len(items))
	return nil
}
