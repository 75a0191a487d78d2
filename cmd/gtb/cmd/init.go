package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gtb/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gtb configuration",
	Long: `Write a config.yaml with the default settings to your config directory.

Every value can also be overridden with a GTB_ environment variable, for
example GTB_GAME_LANGUAGE=de or GTB_LOG_LEVEL=debug. A .env file in the
working directory is read as well.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir, err := getConfigDir()
	if err != nil {
		return fmt.Errorf("finding config dir: %w", err)
	}

	path := filepath.Join(configDir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.EnsureConfigDir(configDir); err != nil {
		return err
	}

	cfg := config.Default(configDir)
	if err := config.Save(path, &cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Edit the file to pick your difficulty, hint length and language")
	fmt.Fprintln(out, "  2. Run 'gtb hint' to try a hint")
	fmt.Fprintln(out, "  3. Run 'gtb' to start playing")
	return nil
}
