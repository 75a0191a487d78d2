package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently played rounds",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of rounds to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	if err := e.openStore(); err != nil {
		return err
	}
	defer e.close()

	rounds, err := e.store.RecentRounds(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(rounds) == 0 {
		fmt.Fprintln(out, "No rounds played yet")
		return nil
	}

	t := newTable("Started", "Status", "Difficulty", "Lang", "Found", "Points", "Hint")
	points := 0
	for _, r := range rounds {
		t.Row(
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			string(r.Status),
			r.Difficulty.String(),
			string(r.Language),
			fmt.Sprintf("%d/%d", len(r.Found), len(r.Answers)),
			strconv.Itoa(r.Points),
			r.Mask,
		)
		points += r.Points
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "%d rounds, %d points\n", len(rounds), points)
	return nil
}
