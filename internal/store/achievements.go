package store

import (
	"context"
	"fmt"
)

// SaveAchievement records an unlock. Write-once per key: a repeat unlock
// is silently ignored and reported as inserted=false, so callers can
// tell a fresh unlock from an idempotent replay.
func (s *Store) SaveAchievement(ctx context.Context, key string, metadata map[string]any) (inserted bool, err error) {
	metaJSON, err := marshalMetadata(metadata)
	if err != nil {
		return false, fmt.Errorf("save achievement: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO achievements (key, unlocked_at, metadata)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`, key, s.nowUnix(), metaJSON)
	if err != nil {
		return false, fmt.Errorf("save achievement: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save achievement: rows affected: %w", err)
	}
	return affected > 0, nil
}

// HasAchievement reports whether key has been unlocked.
func (s *Store) HasAchievement(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM achievements WHERE key = ?
	`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has achievement: %w", err)
	}
	return n > 0, nil
}

// Achievements returns every unlock ordered by unlock time, then key
// for a stable tiebreak.
func (s *Store) Achievements(ctx context.Context) ([]AchievementUnlock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, unlocked_at, COALESCE(metadata, '')
		FROM achievements
		ORDER BY unlocked_at ASC, key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	out := []AchievementUnlock{}
	for rows.Next() {
		var rec AchievementUnlock
		var metaJSON string
		if err := rows.Scan(&rec.Key, &rec.UnlockedAt, &metaJSON); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		if rec.Metadata, err = unmarshalMetadata(metaJSON); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}

	return out, nil
}
