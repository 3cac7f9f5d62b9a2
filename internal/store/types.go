package store

import "github.com/marcward/gridstreak/internal/puzzle"

// ProgressRecord is the per-date puzzle progress row. Created on first
// load of a date, mutated on every (debounced) player edit, terminal
// once Completed is true.
type ProgressRecord struct {
	Date           string
	Puzzle         *puzzle.Puzzle
	Progress       [][]puzzle.Cell
	Completed      bool
	Score          int
	CompletionTime int
	HintsUsed      int
	HasStarted     bool
	UpdatedAt      int64
}

// ScoreRecord is the per-date completion result. Created once per date;
// Synced transitions false -> true only, via the sync engine.
type ScoreRecord struct {
	Date           string `json:"date"`
	Score          int    `json:"score"`
	CompletionTime int    `json:"completionTime"`
	HintsUsed      int    `json:"hintsUsed"`
	PuzzleType     string `json:"puzzleType"`
	Difficulty     string `json:"difficulty"`
	Synced         bool   `json:"synced"`
	CreatedAt      int64  `json:"createdAt"`
}

// ActivityRecord is the denormalized per-date projection used for the
// history heatmap. Upsertable by local completion or remote merge.
type ActivityRecord struct {
	Date       string `json:"date"`
	Completed  bool   `json:"completed"`
	Score      int    `json:"score"`
	Difficulty string `json:"difficulty"`
	Synced     bool   `json:"synced"`
}

// StreakState is the streak singleton. Written only by the streak
// engine; LongestStreak is monotonically non-decreasing.
type StreakState struct {
	CurrentStreak  int    `json:"currentStreak"`
	LongestStreak  int    `json:"longestStreak"`
	LastPlayedDate string `json:"lastPlayedDate"`
}

// UserProfile is the user singleton. Guest profiles carry a locally
// minted id until a real account takes over.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	IsGuest   bool   `json:"isGuest"`
	UpdatedAt int64  `json:"updatedAt"`
}

// AchievementUnlock is a write-once unlock record.
type AchievementUnlock struct {
	Key        string         `json:"key"`
	UnlockedAt int64          `json:"unlockedAt"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ProgressMeta carries optional fields merged into a progress upsert.
// Nil fields keep whatever the stored row already has.
type ProgressMeta struct {
	CompletionTime *int
	HintsUsed      *int
	HasStarted     *bool
}
