package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcward/gridstreak/internal/game"
)

// NewCompleteCommand submits the day's grid for completion.
func NewCompleteCommand(opts *RootOptions) *cobra.Command {
	var (
		date    string
		elapsed int
	)

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Complete the daily puzzle",
		Long:  "Validates the grid and, if solved, records score, activity, streak and achievements.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if date == "" {
				date = game.Today()
			}

			res, err := app.session.Complete(cmd.Context(), date, elapsed)
			if err != nil {
				var pe *game.PlayError
				if errors.As(err, &pe) {
					out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
					_ = out.Error(string(pe.Code), pe.Message, pe.Cells)
					return NewExitError(ExitFailure, pe.Message)
				}
				return WrapExitError(ExitCommandError, "completing puzzle", err)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			text := fmt.Sprintf("solved! score %d, streak %d (best %d)",
				res.Score, res.Streak.CurrentStreak, res.Streak.LongestStreak)
			if len(res.Unlocked) > 0 {
				text += "\nunlocked: " + strings.Join(res.Unlocked, ", ")
			}
			return out.Success(text, res)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "puzzle date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&elapsed, "time", 0, "solve time in seconds")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}
