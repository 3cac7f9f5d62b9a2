// Package game orchestrates daily play: loading or generating the day's
// puzzle, applying player edits through the debounced autosaver, and
// running the completion flow that turns a finished grid into score,
// streak and achievement updates.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/marcward/gridstreak/internal/achieve"
	"github.com/marcward/gridstreak/internal/puzzle"
	"github.com/marcward/gridstreak/internal/score"
	"github.com/marcward/gridstreak/internal/store"
	"github.com/marcward/gridstreak/internal/streak"
)

// Session drives one player's local game state. Loaded days are held in
// memory so edits inside the debounce window are never read back stale
// from the store; the autosaver owns write timing.
type Session struct {
	store        *store.Store
	gen          *puzzle.Generator
	streaks      *streak.Engine
	achievements *achieve.Checker
	saver        *Autosaver
	log          *slog.Logger

	mu   sync.Mutex
	days map[string]*store.ProgressRecord
}

// NewSession wires a session over the local store. logger may be nil for
// the default.
func NewSession(st *store.Store, gen *puzzle.Generator, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:        st,
		gen:          gen,
		streaks:      streak.New(st),
		achievements: achieve.New(st),
		saver:        NewAutosaver(st, defaultSaveInterval, nil),
		log:          logger,
		days:         map[string]*store.ProgressRecord{},
	}
}

// SetSaver replaces the autosaver. Tests use this to pin the debounce
// clock.
func (s *Session) SetSaver(saver *Autosaver) {
	s.saver = saver
}

// LoadDay returns the progress record for date, generating and storing a
// fresh puzzle on first load. Restarting mid-puzzle always comes back to
// the stored progress, never a regenerated grid.
func (s *Session) LoadDay(ctx context.Context, date string) (*store.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadDayLocked(ctx, date)
}

func (s *Session) loadDayLocked(ctx context.Context, date string) (*store.ProgressRecord, error) {
	if rec, ok := s.days[date]; ok {
		return rec, nil
	}

	rec, err := s.store.GetPuzzleProgress(ctx, date)
	if err == nil {
		s.days[date] = rec
		return rec, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load day %s: %w", date, err)
	}

	p, err := s.gen.Generate(date, "")
	if err != nil {
		return nil, fmt.Errorf("load day %s: %w", date, err)
	}

	grid := puzzle.CloneGrid(p.Grid)
	if err := s.store.SavePuzzleProgress(ctx, date, p, grid, store.ProgressMeta{}); err != nil {
		return nil, fmt.Errorf("load day %s: %w", date, err)
	}

	s.log.Info("generated daily puzzle",
		"date", date, "type", p.Type, "difficulty", p.Difficulty)

	rec, err = s.store.GetPuzzleProgress(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load day %s: %w", date, err)
	}
	s.days[date] = rec
	return rec, nil
}

// SetCell applies one player edit and queues a debounced save. Clue
// cells and completed puzzles reject the edit.
func (s *Session) SetCell(ctx context.Context, date string, row, col, value int) (*store.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.loadDayLocked(ctx, date)
	if err != nil {
		return nil, err
	}
	if rec.Completed {
		return nil, newAlreadyCompleted(date)
	}

	size := rec.Puzzle.Size()
	if row < 0 || row >= size || col < 0 || col >= size {
		return nil, newOutOfBounds(date, row, col, size)
	}
	if rec.Progress[row][col].IsClue {
		return nil, newClueCell(date, row, col)
	}
	if err := checkValue(rec.Puzzle.Type, value, size); err != nil {
		return nil, err
	}

	rec.Progress[row][col] = puzzle.Cell{Value: value, Revealed: true}
	rec.HasStarted = true

	started := true
	if err := s.saver.Save(ctx, date, rec.Puzzle, rec.Progress, store.ProgressMeta{HasStarted: &started}); err != nil {
		return nil, fmt.Errorf("set cell %s: %w", date, err)
	}
	return rec, nil
}

// ClearCell reverts a non-clue cell to its unrevealed state.
func (s *Session) ClearCell(ctx context.Context, date string, row, col int) (*store.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.loadDayLocked(ctx, date)
	if err != nil {
		return nil, err
	}
	if rec.Completed {
		return nil, newAlreadyCompleted(date)
	}

	size := rec.Puzzle.Size()
	if row < 0 || row >= size || col < 0 || col >= size {
		return nil, newOutOfBounds(date, row, col, size)
	}
	if rec.Progress[row][col].IsClue {
		return nil, newClueCell(date, row, col)
	}

	rec.Progress[row][col] = puzzle.Cell{}
	if err := s.saver.Save(ctx, date, rec.Puzzle, rec.Progress, store.ProgressMeta{}); err != nil {
		return nil, fmt.Errorf("clear cell %s: %w", date, err)
	}
	return rec, nil
}

// checkValue bounds an edit by variant: nonograms mark cells filled or
// blank, sudoku takes 1..size.
func checkValue(typ puzzle.Type, value, size int) error {
	if typ == puzzle.TypeNonogram {
		if value != 0 && value != 1 {
			return fmt.Errorf("game: nonogram cells take 0 or 1, got %d", value)
		}
		return nil
	}
	if value < 1 || value > size {
		return fmt.Errorf("game: sudoku cells take 1..%d, got %d", size, value)
	}
	return nil
}

// UseHint reveals the first missing or wrong cell from the solution,
// charges one hint and persists immediately (hints bypass the debounce
// so the penalty can never be lost). Returns the updated record.
func (s *Session) UseHint(ctx context.Context, date string) (*store.ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.loadDayLocked(ctx, date)
	if err != nil {
		return nil, err
	}
	if rec.Completed {
		return nil, newAlreadyCompleted(date)
	}

	row, col, found := nextHintCell(rec)
	if !found {
		return rec, nil
	}

	rec.Progress[row][col] = puzzle.Cell{
		Value:    rec.Puzzle.Solution[row][col],
		Revealed: true,
	}
	rec.HintsUsed++
	rec.HasStarted = true

	hints := rec.HintsUsed
	started := true
	err = s.store.SavePuzzleProgress(ctx, date, rec.Puzzle, rec.Progress, store.ProgressMeta{
		HintsUsed:  &hints,
		HasStarted: &started,
	})
	if err != nil {
		return nil, fmt.Errorf("use hint %s: %w", date, err)
	}

	s.log.Info("hint used", "date", date, "row", row, "col", col, "hints", hints)
	return rec, nil
}

// nextHintCell scans row-major for the first editable cell that is
// unrevealed or wrong.
func nextHintCell(rec *store.ProgressRecord) (row, col int, found bool) {
	for i := range rec.Progress {
		for j := range rec.Progress[i] {
			cell := rec.Progress[i][j]
			if cell.IsClue {
				continue
			}
			if !cell.Revealed || cell.Value != rec.Puzzle.Solution[i][j] {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// CompletionResult is everything one successful completion produced.
type CompletionResult struct {
	Score      int               `json:"score"`
	Streak     store.StreakState `json:"streak"`
	Unlocked   []string          `json:"unlocked"`
	Validation puzzle.Result     `json:"validation"`
}

// Complete validates the grid and, if it is a correct solve, runs the
// full completion flow: score, activity, terminal progress state, streak
// and achievements. elapsedSeconds is the player-reported solve time.
//
// The steps write in a fixed order so a crash mid-flow leaves earlier
// rows in place; every step is an upsert or write-once, so rerunning
// Complete after a crash converges instead of double-counting.
func (s *Session) Complete(ctx context.Context, date string, elapsedSeconds int) (*CompletionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saver.Flush(ctx); err != nil {
		return nil, fmt.Errorf("complete %s: %w", date, err)
	}

	rec, err := s.loadDayLocked(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("complete %s: %w", date, err)
	}
	if rec.Completed {
		return nil, newAlreadyCompleted(date)
	}

	result := puzzle.Validate(rec.Puzzle, rec.Progress)
	if !result.IsComplete {
		return nil, newIncomplete(date)
	}
	if !result.IsValid {
		return nil, newInvalid(date, result.Errors)
	}

	points := score.Compute(elapsedSeconds, rec.HintsUsed, rec.Puzzle.Difficulty)

	if err := s.store.SaveScore(ctx, store.ScoreRecord{
		Date:           date,
		Score:          points,
		CompletionTime: elapsedSeconds,
		HintsUsed:      rec.HintsUsed,
		PuzzleType:     string(rec.Puzzle.Type),
		Difficulty:     string(rec.Puzzle.Difficulty),
	}); err != nil {
		return nil, fmt.Errorf("complete %s: %w", date, err)
	}

	if err := s.store.SaveActivity(ctx, store.ActivityRecord{
		Date:       date,
		Completed:  true,
		Score:      points,
		Difficulty: string(rec.Puzzle.Difficulty),
	}); err != nil {
		return nil, fmt.Errorf("complete %s: %w", date, err)
	}

	if err := s.store.MarkPuzzleComplete(ctx, date, points, elapsedSeconds, rec.HintsUsed); err != nil {
		return nil, fmt.Errorf("complete %s: %w", date, err)
	}

	st, err := s.streaks.Advance(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("complete %s: %w", date, err)
	}

	unlocked, err := s.achievements.Check(ctx, achieve.Completion{
		Date:           date,
		Score:          points,
		Difficulty:     string(rec.Puzzle.Difficulty),
		HintsUsed:      rec.HintsUsed,
		CompletionTime: elapsedSeconds,
		CurrentStreak:  st.CurrentStreak,
	})
	if err != nil {
		return nil, fmt.Errorf("complete %s: %w", date, err)
	}

	rec.Completed = true
	rec.Score = points
	rec.CompletionTime = elapsedSeconds

	s.log.Info("puzzle completed",
		"date", date, "score", points, "time", elapsedSeconds,
		"hints", rec.HintsUsed, "streak", st.CurrentStreak, "unlocked", len(unlocked))

	return &CompletionResult{
		Score:      points,
		Streak:     st,
		Unlocked:   unlocked,
		Validation: result,
	}, nil
}

// Today returns the current UTC calendar day in store key form.
func Today() string {
	return time.Now().UTC().Format(puzzle.DateLayout)
}
