package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gtb/internal/shortcut"
	"github.com/f3rmion/gtb/internal/store"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change stored settings",
	Long: `Show or change the settings stored in the gtb database.

Keys: ` + strings.Join(store.Keys, ", ") + `

Examples:
  gtb settings get
  gtb settings get language
  gtb settings set point 3
  gtb settings set language de`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one or all settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	if err := e.openStore(); err != nil {
		return err
	}
	defer e.close()

	keys := store.Keys
	if len(args) == 1 {
		if !slices.Contains(store.Keys, args[0]) {
			return fmt.Errorf("unknown setting %q", args[0])
		}
		keys = []string{args[0]}
	}

	t := newTable("Key", "Value")
	for _, key := range keys {
		v, err := e.store.Get(cmd.Context(), key)
		switch {
		case errors.Is(err, store.ErrNotFound):
			v = mutedColor.Sprint("(unset)")
		case err != nil:
			return err
		case key == store.KeyCustomShortcuts:
			v = fmt.Sprintf("%d shortcuts", shortcut.Parse(v).Len())
		}
		t.Row(key, v)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value, err := store.CanonicalValue(key, strings.TrimSpace(args[1]))
	if err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	if err := e.openStore(); err != nil {
		return err
	}
	defer e.close()

	if err := e.store.Set(cmd.Context(), key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}
