package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcward/gridstreak/internal/game"
)

// NewHintCommand reveals one cell at a score penalty.
func NewHintCommand(opts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Reveal one cell from the solution",
		Long:  "Reveals the first missing or wrong cell. Each hint permanently reduces the final score.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if date == "" {
				date = game.Today()
			}

			rec, err := app.session.UseHint(cmd.Context(), date)
			if err != nil {
				var pe *game.PlayError
				if errors.As(err, &pe) {
					out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
					_ = out.Error(string(pe.Code), pe.Message, nil)
					return NewExitError(ExitFailure, pe.Message)
				}
				return WrapExitError(ExitCommandError, "using hint", err)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			text := fmt.Sprintf("hints used: %d\n%s", rec.HintsUsed, RenderGrid(rec))
			return out.Success(text, map[string]any{
				"date":      rec.Date,
				"hintsUsed": rec.HintsUsed,
				"grid":      rec.Progress,
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "puzzle date (YYYY-MM-DD, default today)")
	return cmd
}
