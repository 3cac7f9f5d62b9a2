package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/marcward/gridstreak/internal/game"
	"github.com/marcward/gridstreak/internal/puzzle"
	"github.com/marcward/gridstreak/internal/store"
)

// Runner executes scenarios against one local store.
type Runner struct {
	store   *store.Store
	session *game.Session
}

// NewRunner wires a runner for one scenario run. The store should be
// fresh; scenarios assume no prior state.
func NewRunner(st *store.Store, secret string) *Runner {
	return &Runner{
		store:   st,
		session: game.NewSession(st, puzzle.NewGenerator(secret), slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
}

// Report is the observable outcome of one scenario run.
type Report struct {
	Scenario     string
	Lines        []string
	Streak       store.StreakState
	Completed    int
	TotalScore   int
	Achievements []string
}

// Run executes every day step in order and collects the final state. A
// step whose real outcome differs from its declared result aborts the
// run with an error.
func (r *Runner) Run(ctx context.Context, scn *Scenario) (*Report, error) {
	rep := &Report{Scenario: scn.Name}

	for i, day := range scn.Days {
		line, err := r.runDay(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("days[%d] (%s): %w", i, day.Date, err)
		}
		rep.Lines = append(rep.Lines, line)
	}

	streak, err := r.store.GetStreak(ctx)
	if err != nil {
		return nil, fmt.Errorf("final streak: %w", err)
	}
	rep.Streak = streak

	activity, err := r.store.AllActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("final activity: %w", err)
	}
	for _, a := range activity {
		if a.Completed {
			rep.Completed++
			rep.TotalScore += a.Score
		}
	}

	unlocks, err := r.store.Achievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("final achievements: %w", err)
	}
	for _, u := range unlocks {
		rep.Achievements = append(rep.Achievements, u.Key)
	}
	// Unlock timestamps come from the wall clock; sort for stable output.
	sort.Strings(rep.Achievements)

	return rep, nil
}

func (r *Runner) runDay(ctx context.Context, day DayStep) (string, error) {
	rec, err := r.session.LoadDay(ctx, day.Date)
	if err != nil {
		return "", err
	}
	prefix := fmt.Sprintf("day %s %s %s", day.Date, rec.Puzzle.Type, rec.Puzzle.Difficulty)

	switch day.Result {
	case "", ResultSolved:
		for i := 0; i < day.Hints; i++ {
			if _, err := r.session.UseHint(ctx, day.Date); err != nil {
				return "", err
			}
		}
		if err := r.fill(ctx, day.Date, rec, 0, -1); err != nil {
			return "", err
		}
		res, err := r.session.Complete(ctx, day.Date, day.Time)
		if err != nil {
			return "", fmt.Errorf("expected solve: %w", err)
		}
		return fmt.Sprintf("%s solved score=%d hints=%d", prefix, res.Score, day.Hints), nil

	case ResultInvalid:
		if err := r.fill(ctx, day.Date, rec, day.Mistakes, -1); err != nil {
			return "", err
		}
		_, err := r.session.Complete(ctx, day.Date, day.Time)
		if !game.IsInvalid(err) {
			return "", fmt.Errorf("expected an invalid grid, got %v", err)
		}
		return prefix + " invalid", nil

	case ResultIncomplete:
		if err := r.fill(ctx, day.Date, rec, 0, editableCells(rec)/2); err != nil {
			return "", err
		}
		_, err := r.session.Complete(ctx, day.Date, day.Time)
		if !game.IsIncomplete(err) {
			return "", fmt.Errorf("expected an incomplete grid, got %v", err)
		}
		return prefix + " incomplete", nil

	default:
		return "", fmt.Errorf("unknown result %q", day.Result)
	}
}

// fill writes editable cells row-major from the solution. The first
// mistakes cells get a wrong value; limit >= 0 stops after that many
// cells.
func (r *Runner) fill(ctx context.Context, date string, rec *store.ProgressRecord, mistakes, limit int) error {
	filled := 0
	for i := range rec.Puzzle.Solution {
		for j := range rec.Puzzle.Solution[i] {
			if rec.Progress[i][j].IsClue {
				continue
			}
			if limit >= 0 && filled >= limit {
				return nil
			}
			value := rec.Puzzle.Solution[i][j]
			if filled < mistakes {
				value = wrongValue(rec.Puzzle.Type, value, rec.Puzzle.Size())
			}
			if _, err := r.session.SetCell(ctx, date, i, j, value); err != nil {
				return err
			}
			filled++
		}
	}
	return nil
}

func editableCells(rec *store.ProgressRecord) int {
	n := 0
	for i := range rec.Progress {
		for j := range rec.Progress[i] {
			if !rec.Progress[i][j].IsClue {
				n++
			}
		}
	}
	return n
}

func wrongValue(typ puzzle.Type, correct, size int) int {
	if typ == puzzle.TypeNonogram {
		return 1 - correct
	}
	return correct%size + 1
}
