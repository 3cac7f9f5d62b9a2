package remote

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/marcward/gridstreak/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// fetchLimit caps a history fetch at one year of daily entries.
const fetchLimit = 365

// ErrUnknownUser is returned when a submission or fetch names a user the
// service has never seen.
var ErrUnknownUser = errors.New("remote: unknown user")

// ScoreRow is one stored daily score.
type ScoreRow struct {
	ID             string
	UserID         string
	Date           string
	Score          int
	CompletionTime int
	HintsUsed      int
	PuzzleType     string
	Difficulty     string
	CreatedAt      int64
}

// Storage is the service-side persistence layer.
type Storage struct {
	db *sql.DB

	now func() time.Time
}

// OpenStorage creates or opens the service database at path.
func OpenStorage(path string) (*Storage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Storage{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetNowFunc overrides the timestamp source for tests.
func (s *Storage) SetNowFunc(now func() time.Time) {
	s.now = now
}

// EnsureUser registers userID if it is not already present.
func (s *Storage) EnsureUser(ctx context.Context, userID, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, userID, name, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// UserExists reports whether userID is registered.
func (s *Storage) UserExists(ctx context.Context, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return true, nil
}

// InsertScore stores one daily score. If the user already has a row for
// the date, the stored row wins: the existing row is returned with
// duplicate=true and nothing is written.
func (s *Storage) InsertScore(ctx context.Context, row ScoreRow) (ScoreRow, bool, error) {
	row.ID = uuid.Must(uuid.NewV7()).String()
	row.CreatedAt = s.now().UnixMilli()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_scores
			(id, user_id, date, score, completion_time, hints_used, puzzle_type, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO NOTHING
	`, row.ID, row.UserID, row.Date, row.Score, row.CompletionTime,
		row.HintsUsed, row.PuzzleType, row.Difficulty, row.CreatedAt)
	if err != nil {
		return ScoreRow{}, false, fmt.Errorf("insert score: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return ScoreRow{}, false, fmt.Errorf("insert score: %w", err)
	}
	if affected > 0 {
		return row, false, nil
	}

	existing, err := s.scoreFor(ctx, row.UserID, row.Date)
	if err != nil {
		return ScoreRow{}, false, err
	}
	return existing, true, nil
}

func (s *Storage) scoreFor(ctx context.Context, userID, date string) (ScoreRow, error) {
	var row ScoreRow
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, score, completion_time, hints_used,
		       puzzle_type, difficulty, created_at
		FROM daily_scores
		WHERE user_id = ? AND date = ?
	`, userID, date).Scan(
		&row.ID, &row.UserID, &row.Date, &row.Score, &row.CompletionTime,
		&row.HintsUsed, &row.PuzzleType, &row.Difficulty, &row.CreatedAt,
	)
	if err != nil {
		return ScoreRow{}, fmt.Errorf("get score: %w", err)
	}
	return row, nil
}

// ScoresForUser returns the user's history, newest first, capped at one
// year of entries.
func (s *Storage) ScoresForUser(ctx context.Context, userID string) ([]ScoreRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, score, completion_time, hints_used,
		       puzzle_type, difficulty, created_at
		FROM daily_scores
		WHERE user_id = ?
		ORDER BY date DESC
		LIMIT ?
	`, userID, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var row ScoreRow
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.Date, &row.Score, &row.CompletionTime,
			&row.HintsUsed, &row.PuzzleType, &row.Difficulty, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return out, nil
}

// StreakFor returns the user's streak state, zero-valued if the user has
// never scored.
func (s *Storage) StreakFor(ctx context.Context, userID string) (store.StreakState, error) {
	var st store.StreakState
	err := s.db.QueryRowContext(ctx, `
		SELECT current_streak, longest_streak, last_played_date
		FROM streaks
		WHERE user_id = ?
	`, userID).Scan(&st.CurrentStreak, &st.LongestStreak, &st.LastPlayedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return store.StreakState{}, nil
	}
	if err != nil {
		return store.StreakState{}, fmt.Errorf("get streak: %w", err)
	}
	return st, nil
}

// SaveStreak upserts the user's streak state.
func (s *Storage) SaveStreak(ctx context.Context, userID string, st store.StreakState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_played_date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_played_date = excluded.last_played_date,
			updated_at = excluded.updated_at
	`, userID, st.CurrentStreak, st.LongestStreak, st.LastPlayedDate, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}
