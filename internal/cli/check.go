package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcward/gridstreak/internal/game"
	"github.com/marcward/gridstreak/internal/puzzle"
)

// NewCheckCommand validates the saved grid without completing it.
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the saved grid",
		Long:  "Validates the current progress against the puzzle's constraints. Reports completeness and violations without recording a completion.",
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

			result := puzzle.Validate(rec.Puzzle, rec.Progress)

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			var text string
			switch {
			case !result.IsComplete:
				text = "incomplete: some cells are still empty"
			case result.IsValid:
				text = "looks good: the grid is complete and valid"
			default:
				text = fmt.Sprintf("invalid: %d cell(s) violate the puzzle", len(result.Errors))
			}
			if err := out.Success(text, map[string]any{
				"date":       rec.Date,
				"isComplete": result.IsComplete,
				"isValid":    result.IsValid,
				"errors":     result.Errors,
			}); err != nil {
				return err
			}

			if result.IsComplete && !result.IsValid {
				return NewExitError(ExitFailure, "grid is invalid")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "puzzle date (YYYY-MM-DD, default today)")
	return cmd
}
