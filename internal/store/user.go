package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// profileKey addresses the user singleton.
const profileKey = "profile"

// SaveUser upserts the user singleton.
func (s *Store) SaveUser(ctx context.Context, u UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_profile (key, id, email, name, is_guest, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			id         = excluded.id,
			email      = excluded.email,
			name       = excluded.name,
			is_guest   = excluded.is_guest,
			updated_at = excluded.updated_at
	`, profileKey, u.ID, u.Email, u.Name, u.IsGuest, s.nowUnix())
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// GetUser reads the user singleton. Returns ErrNotFound before any
// profile (guest or account) has been saved.
func (s *Store) GetUser(ctx context.Context) (*UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, is_guest, updated_at
		FROM user_profile
		WHERE key = ?
	`, profileKey)

	var u UserProfile
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.IsGuest, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
