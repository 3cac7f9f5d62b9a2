// Package streak computes consecutive-day streak transitions.
//
// Day arithmetic is done at calendar-day granularity in UTC so that a
// device clock drifting across a local midnight cannot manufacture or
// destroy a day boundary.
package streak

import (
	"context"
	"fmt"
	"time"

	"github.com/marcward/gridstreak/internal/puzzle"
	"github.com/marcward/gridstreak/internal/store"
)

// Engine advances the streak singleton. It is the sole writer of
// StreakState.
type Engine struct {
	store *store.Store
}

// New creates a streak engine over the local store.
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Advance applies a completion on completedDate to the stored streak
// state and persists the result. Same-day completions are a no-op.
func (e *Engine) Advance(ctx context.Context, completedDate string) (store.StreakState, error) {
	prev, err := e.store.GetStreak(ctx)
	if err != nil {
		return store.StreakState{}, fmt.Errorf("advance streak: %w", err)
	}

	next, changed, err := Next(prev, completedDate)
	if err != nil {
		return store.StreakState{}, fmt.Errorf("advance streak: %w", err)
	}
	if !changed {
		return prev, nil
	}

	if err := e.store.UpdateStreak(ctx, next); err != nil {
		return store.StreakState{}, fmt.Errorf("advance streak: %w", err)
	}
	return next, nil
}

// Next is the pure streak transition. It is shared with the score
// service, which maintains the same state machine per user.
//
//   - same day as LastPlayedDate: unchanged
//   - exactly one day later (or no prior day): current+1, longest raised
//   - any larger gap: current resets to 1, longest untouched
func Next(prev store.StreakState, completedDate string) (store.StreakState, bool, error) {
	if _, err := time.Parse(puzzle.DateLayout, completedDate); err != nil {
		return store.StreakState{}, false, fmt.Errorf("%w: %q", puzzle.ErrInvalidDate, completedDate)
	}

	if prev.LastPlayedDate == completedDate {
		return prev, false, nil
	}

	next := store.StreakState{
		LongestStreak:  prev.LongestStreak,
		LastPlayedDate: completedDate,
	}

	switch {
	case prev.LastPlayedDate == "":
		next.CurrentStreak = 1
	default:
		gap, err := daysBetween(prev.LastPlayedDate, completedDate)
		if err != nil {
			return store.StreakState{}, false, err
		}
		if gap == 1 {
			next.CurrentStreak = prev.CurrentStreak + 1
		} else {
			next.CurrentStreak = 1
		}
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}

	return next, true, nil
}

// daysBetween returns the signed calendar-day distance from a to b in
// UTC.
func daysBetween(a, b string) (int, error) {
	ta, err := time.ParseInLocation(puzzle.DateLayout, a, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", puzzle.ErrInvalidDate, a)
	}
	tb, err := time.ParseInLocation(puzzle.DateLayout, b, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", puzzle.ErrInvalidDate, b)
	}
	return int(tb.Sub(ta) / (24 * time.Hour)), nil
}
