package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SaveActivity upserts the per-date activity projection after a local
// completion. Local writes are born unsynced.
func (s *Store) SaveActivity(ctx context.Context, rec ActivityRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity (date, completed, score, difficulty, synced)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT(date) DO UPDATE SET
			completed  = excluded.completed,
			score      = excluded.score,
			difficulty = excluded.difficulty,
			synced     = 0
	`, rec.Date, rec.Completed, rec.Score, rec.Difficulty)
	if err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	return nil
}

// UpsertActivityFromSync applies a remote activity record under the
// max-score-wins rule: the incoming record lands only if no local row
// exists or the incoming score is >= the local one. A weaker remote
// record never clobbers a better local-only result. Reports whether the
// row was applied.
func (s *Store) UpsertActivityFromSync(ctx context.Context, rec ActivityRecord) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO activity (date, completed, score, difficulty, synced)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(date) DO UPDATE SET
			completed  = excluded.completed,
			score      = excluded.score,
			difficulty = excluded.difficulty,
			synced     = 1
		WHERE excluded.score >= activity.score
	`, rec.Date, rec.Completed, rec.Score, rec.Difficulty)
	if err != nil {
		return false, fmt.Errorf("upsert activity from sync: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upsert activity from sync: rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetActivity reads the activity row for a date.
// Returns ErrNotFound when none exists.
func (s *Store) GetActivity(ctx context.Context, date string) (*ActivityRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT date, completed, score, difficulty, synced
		FROM activity
		WHERE date = ?
	`, date)

	var rec ActivityRecord
	err := row.Scan(&rec.Date, &rec.Completed, &rec.Score, &rec.Difficulty, &rec.Synced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get activity %q: %w", date, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return &rec, nil
}

// AllActivity returns every activity row ordered by date.
func (s *Store) AllActivity(ctx context.Context) ([]ActivityRecord, error) {
	return s.queryActivity(ctx, `
		SELECT date, completed, score, difficulty, synced
		FROM activity
		ORDER BY date ASC
	`)
}

// ActivityRange returns activity rows with start <= date <= end, ordered
// by date. Date keys sort lexicographically as calendar days.
func (s *Store) ActivityRange(ctx context.Context, start, end string) ([]ActivityRecord, error) {
	return s.queryActivity(ctx, `
		SELECT date, completed, score, difficulty, synced
		FROM activity
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, start, end)
}

// UnsyncedActivity returns activity rows not yet reflected remotely.
func (s *Store) UnsyncedActivity(ctx context.Context) ([]ActivityRecord, error) {
	return s.queryActivity(ctx, `
		SELECT date, completed, score, difficulty, synced
		FROM activity
		WHERE synced = 0
		ORDER BY date ASC
	`)
}

// MarkActivitySynced flips the sync flag for a date's activity row.
func (s *Store) MarkActivitySynced(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE activity SET synced = 1 WHERE date = ?
	`, date)
	if err != nil {
		return fmt.Errorf("mark activity synced: %w", err)
	}
	return nil
}

func (s *Store) queryActivity(ctx context.Context, query string, args ...any) ([]ActivityRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	out := []ActivityRecord{}
	for rows.Next() {
		var rec ActivityRecord
		if err := rows.Scan(&rec.Date, &rec.Completed, &rec.Score, &rec.Difficulty, &rec.Synced); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}

	return out, nil
}
