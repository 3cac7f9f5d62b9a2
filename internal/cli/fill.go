package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marcward/gridstreak/internal/game"
	"github.com/marcward/gridstreak/internal/store"
)

// NewFillCommand applies one cell edit to the day's puzzle.
func NewFillCommand(opts *RootOptions) *cobra.Command {
	var (
		date  string
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "fill <row> <col> [value]",
		Short: "Fill or clear a cell",
		Long:  "Sets a cell of the daily grid. Sudoku takes 1-6; nonograms take 0 (blank) or 1 (filled). --clear reverts the cell.",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, value, err := parseFillArgs(args, clear)
			if err != nil {
				return WrapExitError(ExitCommandError, "parsing arguments", err)
			}

			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if date == "" {
				date = game.Today()
			}

			var rec *store.ProgressRecord
			if clear {
				rec, err = app.session.ClearCell(cmd.Context(), date, row, col)
			} else {
				rec, err = app.session.SetCell(cmd.Context(), date, row, col, value)
			}
			if err != nil {
				var pe *game.PlayError
				if errors.As(err, &pe) {
					out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
					_ = out.Error(string(pe.Code), pe.Message, pe.Cells)
					return NewExitError(ExitFailure, pe.Message)
				}
				return WrapExitError(ExitCommandError, "filling cell", err)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			return out.Success(RenderGrid(rec), map[string]any{
				"date": rec.Date,
				"grid": rec.Progress,
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "puzzle date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the cell instead of filling it")
	return cmd
}

func parseFillArgs(args []string, clear bool) (row, col, value int, err error) {
	row, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("row %q is not a number", args[0])
	}
	col, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("col %q is not a number", args[1])
	}
	if clear {
		return row, col, 0, nil
	}
	if len(args) < 3 {
		return 0, 0, 0, fmt.Errorf("value is required unless --clear is set")
	}
	value, err = strconv.Atoi(args[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("value %q is not a number", args[2])
	}
	return row, col, value, nil
}
