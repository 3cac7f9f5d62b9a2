package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// streakKey addresses the streak singleton.
const streakKey = "current"

// GetStreak reads the streak singleton. A device that has never played
// gets the zero state, not an error.
func (s *Store) GetStreak(ctx context.Context) (StreakState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT current_streak, longest_streak, last_played_date
		FROM streak
		WHERE key = ?
	`, streakKey)

	var st StreakState
	err := row.Scan(&st.CurrentStreak, &st.LongestStreak, &st.LastPlayedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return StreakState{}, nil
	}
	if err != nil {
		return StreakState{}, fmt.Errorf("get streak: %w", err)
	}
	return st, nil
}

// UpdateStreak replaces the streak singleton. Only the streak engine
// calls this.
func (s *Store) UpdateStreak(ctx context.Context, st StreakState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streak (key, current_streak, longest_streak, last_played_date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			current_streak   = excluded.current_streak,
			longest_streak   = excluded.longest_streak,
			last_played_date = excluded.last_played_date,
			updated_at       = excluded.updated_at
	`, streakKey, st.CurrentStreak, st.LongestStreak, st.LastPlayedDate, s.nowUnix())
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	return nil
}
