// Package achieve defines the achievement catalog and unlock logic.
//
// Unlocks are write-once in the store; Check returns the keys newly
// unlocked by one completion so the caller decides how to present them.
// There is no broadcast channel.
package achieve

import (
	"context"
	"fmt"

	"github.com/marcward/gridstreak/internal/store"
)

// Achievement keys. Stable identifiers persisted in the store.
const (
	KeyFirstWin     = "first-win"
	KeyStreak3      = "streak-3"
	KeyStreak7      = "streak-7"
	KeyPerfectScore = "perfect-score"
	KeyNoHints      = "no-hints"
	KeySpeedDemon   = "speed-demon"
)

// Unlock thresholds.
const (
	perfectScoreMin = 400
	speedDemonMax   = 180 // seconds
	streak3Days     = 3
	streak7Days     = 7
)

// Achievement describes one catalog entry for display.
type Achievement struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Catalog is the full achievement list, in display order.
var Catalog = []Achievement{
	{Key: KeyFirstWin, Title: "First Victory", Description: "Complete your first puzzle"},
	{Key: KeyStreak3, Title: "3-Day Streak", Description: "Solve puzzles for 3 consecutive days"},
	{Key: KeyStreak7, Title: "Week Warrior", Description: "Achieve a 7-day streak"},
	{Key: KeyPerfectScore, Title: "Perfect Score", Description: "Score 400+ points on a puzzle"},
	{Key: KeyNoHints, Title: "No Help Needed", Description: "Complete a puzzle without using hints"},
	{Key: KeySpeedDemon, Title: "Speed Demon", Description: "Complete a puzzle in under 3 minutes"},
}

// Completion carries the facts one finished puzzle contributes to
// unlock checks.
type Completion struct {
	Date           string
	Score          int
	Difficulty     string
	HintsUsed      int
	CompletionTime int
	CurrentStreak  int
}

// Checker evaluates unlocks against the local store.
type Checker struct {
	store *store.Store
}

// New creates a checker over the local store.
func New(st *store.Store) *Checker {
	return &Checker{store: st}
}

// Check evaluates every achievement against one completion and returns
// the keys that unlocked just now. Already-held achievements are
// skipped; the store's write-once semantics make replays idempotent.
func (c *Checker) Check(ctx context.Context, comp Completion) ([]string, error) {
	unlocked := []string{}

	try := func(key string, condition bool, metadata map[string]any) error {
		if !condition {
			return nil
		}
		inserted, err := c.store.SaveAchievement(ctx, key, metadata)
		if err != nil {
			return fmt.Errorf("check achievement %s: %w", key, err)
		}
		if inserted {
			unlocked = append(unlocked, key)
		}
		return nil
	}

	checks := []struct {
		key       string
		condition bool
		metadata  map[string]any
	}{
		{KeyFirstWin, true, map[string]any{"date": comp.Date, "score": comp.Score}},
		{KeyPerfectScore, comp.Score >= perfectScoreMin, map[string]any{"date": comp.Date, "score": comp.Score, "difficulty": comp.Difficulty}},
		{KeyNoHints, comp.HintsUsed == 0, map[string]any{"date": comp.Date, "score": comp.Score}},
		{KeySpeedDemon, comp.CompletionTime <= speedDemonMax, map[string]any{"date": comp.Date, "time": comp.CompletionTime}},
		{KeyStreak3, comp.CurrentStreak >= streak3Days, map[string]any{"date": comp.Date, "streak": streak3Days}},
		{KeyStreak7, comp.CurrentStreak >= streak7Days, map[string]any{"date": comp.Date, "streak": streak7Days}},
	}

	for _, ch := range checks {
		if err := try(ch.key, ch.condition, ch.metadata); err != nil {
			return nil, err
		}
	}

	return unlocked, nil
}
