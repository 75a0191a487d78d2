package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/shortcut"
	"github.com/f3rmion/gtb/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play rounds in the plain terminal",
	Long: `Play trainer rounds line by line, without the full-screen UI.

Type a guess and press enter. The countdown is checked on every line.

Commands:
  :hint   reveal one more letter of every answer left
  :skip   give up the round
  :quit   give up and exit`,
	RunE: runPlay,
}

var playRounds int

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().IntVarP(&playRounds, "rounds", "n", 1, "number of rounds to play")
}

func runPlay(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	if err := e.openStore(); err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	p, err := e.profile(ctx)
	if err != nil {
		return err
	}
	session := e.newSession(e.corpus.Items(), p.Score, shortcut.Parse(p.Shortcuts))

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	for i := 0; i < playRounds; i++ {
		quit, err := playRound(ctx, session, p.Settings, in, out)
		if err != nil {
			return err
		}

		round := store.RoundFrom(session)
		if err := e.store.RecordRound(ctx, round); err != nil {
			e.log.Warn().Err(err).Str("round", round.ID).Msg("recording round")
		}
		if err := store.SaveScore(ctx, e.store, session.Score()); err != nil {
			e.log.Warn().Err(err).Msg("saving score")
		}
		if quit {
			break
		}
	}

	fmt.Fprintf(out, "\nScore: %d\n", session.Score())
	return nil
}

// playRound runs one round and reports whether the player asked to quit.
func playRound(ctx context.Context, s *game.Session, settings game.Settings, in *bufio.Scanner, out io.Writer) (bool, error) {
	if err := s.Start(settings); err != nil {
		return false, err
	}

	fmt.Fprintf(out, "\n%s   %s   %d answers   %ds\n",
		literalColor.Sprint(strings.ToUpper(s.Mask())), s.Structure(), len(s.Answers()), s.TimeLeft())

	started := time.Now()
	ticked := 0
	quit := false

loop:
	for s.Status() == game.StatusPlaying {
		if ctx.Err() != nil {
			s.Timeout()
			break
		}
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			s.Timeout()
			quit = true
			break
		}
		// Catch the countdown up with the wall clock.
		for elapsed := int(time.Since(started).Seconds()); ticked < elapsed && s.Status() == game.StatusPlaying; ticked++ {
			s.Tick()
		}
		if s.Status() != game.StatusPlaying {
			fmt.Fprintln(out, "Time is up")
			break
		}

		line := strings.TrimSpace(in.Text())
		switch line {
		case ":quit":
			s.Timeout()
			quit = true
			break loop
		case ":skip":
			s.Timeout()
			break loop
		case ":hint":
			if err := s.RevealAll(); err != nil {
				return quit, err
			}
			for _, a := range s.Remaining() {
				fmt.Fprintf(out, "  %s\n", strings.ToUpper(s.MaskFor(a)))
			}
			continue
		}

		res, err := s.CheckAnswer(line)
		if err != nil {
			return quit, err
		}
		if res.Rejected() {
			fmt.Fprintln(out, mutedColor.Sprint("  no"))
			continue
		}
		found, total := s.Progress()
		fmt.Fprintf(out, "  %s (%d/%d, %ds left)\n", literalColor.Sprint(strings.Join(res.Accepted, ", ")), found, total, s.TimeLeft())
		if res.Complete {
			fmt.Fprintf(out, "All found! +%d\n", res.Points)
		}
	}

	if s.Status() != game.StatusWon {
		fmt.Fprintln(out, "Missed:")
		for _, a := range s.Remaining() {
			fmt.Fprintf(out, "  %s\n", a)
		}
	}
	return quit, nil
}
