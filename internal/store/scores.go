package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SaveScore records a completion result. At most one score row exists
// per date; a second save for the same date is silently ignored
// (ON CONFLICT DO NOTHING), matching the one-record-per-date invariant.
func (s *Store) SaveScore(ctx context.Context, rec ScoreRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores
		(date, score, completion_time, hints_used, puzzle_type, difficulty, synced, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(date) DO NOTHING
	`,
		rec.Date, rec.Score, rec.CompletionTime, rec.HintsUsed,
		rec.PuzzleType, rec.Difficulty, s.nowUnix(),
	)
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

// UpsertScoreFromSync applies a remote score record. Remote is
// authoritative for sync state, so the row lands already synced.
func (s *Store) UpsertScoreFromSync(ctx context.Context, rec ScoreRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores
		(date, score, completion_time, hints_used, puzzle_type, difficulty, synced, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(date) DO UPDATE SET
			score           = excluded.score,
			completion_time = excluded.completion_time,
			hints_used      = excluded.hints_used,
			puzzle_type     = excluded.puzzle_type,
			difficulty      = excluded.difficulty,
			synced          = 1
	`,
		rec.Date, rec.Score, rec.CompletionTime, rec.HintsUsed,
		rec.PuzzleType, rec.Difficulty, s.nowUnix(),
	)
	if err != nil {
		return fmt.Errorf("upsert score from sync: %w", err)
	}
	return nil
}

// GetScore reads the score row for a date.
// Returns ErrNotFound when no score exists.
func (s *Store) GetScore(ctx context.Context, date string) (*ScoreRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT date, score, completion_time, hints_used, puzzle_type, difficulty, synced, created_at
		FROM scores
		WHERE date = ?
	`, date)

	rec, err := scanScore(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get score %q: %w", date, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get score: %w", err)
	}
	return rec, nil
}

// UnsyncedScores returns every score row still waiting for a confirmed
// remote accept, ordered by date for deterministic push order.
func (s *Store) UnsyncedScores(ctx context.Context) ([]ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, score, completion_time, hints_used, puzzle_type, difficulty, synced, created_at
		FROM scores
		WHERE synced = 0
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query unsynced scores: %w", err)
	}
	defer rows.Close()

	out := []ScoreRecord{}
	for rows.Next() {
		rec, err := scanScore(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan unsynced score: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unsynced scores: %w", err)
	}

	return out, nil
}

// MarkScoreSynced flips the one-way sync flag for a date.
func (s *Store) MarkScoreSynced(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE scores SET synced = 1 WHERE date = ?
	`, date)
	if err != nil {
		return fmt.Errorf("mark score synced: %w", err)
	}
	return nil
}

func scanScore(scan func(...any) error) (*ScoreRecord, error) {
	var rec ScoreRecord
	err := scan(
		&rec.Date, &rec.Score, &rec.CompletionTime, &rec.HintsUsed,
		&rec.PuzzleType, &rec.Difficulty, &rec.Synced, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
