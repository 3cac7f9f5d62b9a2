package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcward/gridstreak/internal/game"
)

// NewStatsCommand reports streak, history and achievements.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streak, activity and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()

			streak, err := app.store.GetStreak(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "reading streak", err)
			}

			days, err := app.session.Heatmap(ctx, game.Today())
			if err != nil {
				return WrapExitError(ExitCommandError, "building heatmap", err)
			}

			// Lifetime totals come from the full history, not the
			// heatmap's one-year window.
			activity, err := app.store.AllActivity(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "reading activity", err)
			}
			var completed, totalScore int
			for _, a := range activity {
				if a.Completed {
					completed++
					totalScore += a.Score
				}
			}

			unlocks, err := app.store.Achievements(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "reading achievements", err)
			}
			keys := make([]string, 0, len(unlocks))
			for _, u := range unlocks {
				keys = append(keys, u.Key)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			text := fmt.Sprintf(
				"streak %d (best %d, last played %s)\ncompleted %d puzzles, %d points",
				streak.CurrentStreak, streak.LongestStreak, orNever(streak.LastPlayedDate),
				completed, totalScore)
			if len(keys) > 0 {
				text += "\nachievements: " + strings.Join(keys, ", ")
			}
			return out.Success(text, map[string]any{
				"streak":       streak,
				"completed":    completed,
				"totalScore":   totalScore,
				"achievements": unlocks,
				"heatmap":      days,
			})
		},
	}
	return cmd
}

func orNever(date string) string {
	if date == "" {
		return "never"
	}
	return date
}
