package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marcward/gridstreak/internal/puzzle"
)

// SavePuzzleProgress upserts the progress row for a date. The completed
// flag is never touched here (MarkPuzzleComplete owns it) and nil meta
// fields keep the stored values, so a debounced autosave cannot clobber
// completion metadata written by an earlier flow.
func (s *Store) SavePuzzleProgress(ctx context.Context, date string, p *puzzle.Puzzle, grid [][]puzzle.Cell, meta ProgressMeta) error {
	puzzleJSON, err := marshalPuzzle(p)
	if err != nil {
		return fmt.Errorf("save puzzle progress: %w", err)
	}
	gridJSON, err := marshalGrid(grid)
	if err != nil {
		return fmt.Errorf("save puzzle progress: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO puzzles
		(date, puzzle_data, progress, completed, completion_time, hints_used, has_started, updated_at)
		VALUES (?, ?, ?, 0, ?, ?, COALESCE(?, 0), ?)
		ON CONFLICT(date) DO UPDATE SET
			puzzle_data     = excluded.puzzle_data,
			progress        = excluded.progress,
			completion_time = COALESCE(?, puzzles.completion_time),
			hints_used      = COALESCE(?, puzzles.hints_used),
			has_started     = COALESCE(?, puzzles.has_started),
			updated_at      = excluded.updated_at
	`,
		date, puzzleJSON, gridJSON,
		nullableInt(meta.CompletionTime), nullableInt(meta.HintsUsed), nullableBool(meta.HasStarted),
		s.nowUnix(),
		nullableInt(meta.CompletionTime), nullableInt(meta.HintsUsed), nullableBool(meta.HasStarted),
	)
	if err != nil {
		return fmt.Errorf("save puzzle progress: %w", err)
	}

	return nil
}

// GetPuzzleProgress reads the progress row for a date.
// Returns ErrNotFound when the date has never been loaded.
func (s *Store) GetPuzzleProgress(ctx context.Context, date string) (*ProgressRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT date, puzzle_data, progress, completed,
		       COALESCE(score, 0), COALESCE(completion_time, 0), COALESCE(hints_used, 0),
		       has_started, updated_at
		FROM puzzles
		WHERE date = ?
	`, date)

	var rec ProgressRecord
	var puzzleJSON, gridJSON string
	err := row.Scan(
		&rec.Date, &puzzleJSON, &gridJSON, &rec.Completed,
		&rec.Score, &rec.CompletionTime, &rec.HintsUsed,
		&rec.HasStarted, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get puzzle progress %q: %w", date, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get puzzle progress: %w", err)
	}

	if rec.Puzzle, err = unmarshalPuzzle(puzzleJSON); err != nil {
		return nil, fmt.Errorf("get puzzle progress: %w", err)
	}
	if rec.Progress, err = unmarshalGrid(gridJSON); err != nil {
		return nil, fmt.Errorf("get puzzle progress: %w", err)
	}

	return &rec, nil
}

// MarkPuzzleComplete flips the progress row to its terminal state and
// stamps the completion metadata. Returns ErrNotFound if the date was
// never loaded.
func (s *Store) MarkPuzzleComplete(ctx context.Context, date string, scoreValue, completionTime, hintsUsed int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE puzzles
		SET completed = 1, score = ?, completion_time = ?, hints_used = ?, updated_at = ?
		WHERE date = ?
	`, scoreValue, completionTime, hintsUsed, s.nowUnix(), date)
	if err != nil {
		return fmt.Errorf("mark puzzle complete: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark puzzle complete: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark puzzle complete %q: %w", date, ErrNotFound)
	}

	return nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableBool(v *bool) any {
	if v == nil {
		return nil
	}
	if *v {
		return 1
	}
	return 0
}
