package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gtb/internal/shortcut"
	"github.com/f3rmion/gtb/internal/store"
)

var shortcutsCmd = &cobra.Command{
	Use:   "shortcuts",
	Short: "Manage custom answer shortcuts",
	Long: `Custom shortcuts let a short word stand for one or more answers.
They are written one per line:

  ww = world war
  ph = pirate hat, party hat

Lines starting with '#' are ignored. Custom shortcuts are consulted before
the shortcuts that come with the dataset.`,
}

var shortcutsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the custom shortcuts",
	Args:  cobra.NoArgs,
	RunE:  runShortcutsShow,
}

var shortcutsSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Replace the custom shortcuts with the contents of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runShortcutsSet,
}

var shortcutsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every custom shortcut",
	Args:  cobra.NoArgs,
	RunE:  runShortcutsClear,
}

var shortcutsBuiltin bool

func init() {
	rootCmd.AddCommand(shortcutsCmd)
	shortcutsCmd.AddCommand(shortcutsShowCmd)
	shortcutsCmd.AddCommand(shortcutsSetCmd)
	shortcutsCmd.AddCommand(shortcutsClearCmd)

	shortcutsShowCmd.Flags().BoolVar(&shortcutsBuiltin, "builtin", false, "print the dataset shortcuts instead")
}

func runShortcutsShow(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if shortcutsBuiltin {
		fmt.Fprint(out, shortcut.Builtin(e.corpus.Items()).String())
		return nil
	}

	if err := e.openStore(); err != nil {
		return err
	}
	defer e.close()

	p, err := e.profile(cmd.Context())
	if err != nil {
		return err
	}
	t := shortcut.Parse(p.Shortcuts)
	if t.Len() == 0 {
		fmt.Fprintln(out, "No custom shortcuts")
		return nil
	}
	fmt.Fprint(out, t.String())
	return nil
}

func runShortcutsSet(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading shortcuts: %w", err)
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	if err := e.openStore(); err != nil {
		return err
	}
	defer e.close()

	t := shortcut.Parse(string(data))
	if err := store.SaveShortcuts(cmd.Context(), e.store, string(data)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d shortcuts\n", t.Len())
	return nil
}

func runShortcutsClear(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	if err := e.openStore(); err != nil {
		return err
	}
	defer e.close()

	if err := store.SaveShortcuts(cmd.Context(), e.store, ""); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Custom shortcuts cleared")
	return nil
}
