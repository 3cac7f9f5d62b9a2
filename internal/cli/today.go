package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcward/gridstreak/internal/game"
)

// NewTodayCommand shows (and on first run generates) the day's puzzle.
func NewTodayCommand(opts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the daily puzzle",
		Long:  "Loads the puzzle for today (or --date), generating it on first load.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if date == "" {
				date = game.Today()
			}

			rec, err := app.session.LoadDay(cmd.Context(), date)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading puzzle", err)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			text := fmt.Sprintf("%s  %s (%s)\n%s",
				rec.Date, rec.Puzzle.Type, rec.Puzzle.Difficulty, RenderGrid(rec))
			if rec.Completed {
				text += fmt.Sprintf("\ncompleted, score %d", rec.Score)
			}
			return out.Success(text, map[string]any{
				"date":       rec.Date,
				"type":       rec.Puzzle.Type,
				"difficulty": rec.Puzzle.Difficulty,
				"completed":  rec.Completed,
				"hintsUsed":  rec.HintsUsed,
				"grid":       rec.Progress,
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "puzzle date (YYYY-MM-DD, default today)")
	return cmd
}
