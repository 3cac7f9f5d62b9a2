package store

import (
	"context"
	"errors"
	"testing"
)

func TestStreak_DefaultAndRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	st, err := s.GetStreak(ctx)
	if err != nil {
		t.Fatalf("GetStreak() failed: %v", err)
	}
	if st.CurrentStreak != 0 || st.LongestStreak != 0 || st.LastPlayedDate != "" {
		t.Errorf("fresh streak = %+v, want zero state", st)
	}

	want := StreakState{CurrentStreak: 3, LongestStreak: 5, LastPlayedDate: "2024-01-10"}
	if err := s.UpdateStreak(ctx, want); err != nil {
		t.Fatalf("UpdateStreak() failed: %v", err)
	}

	st, err = s.GetStreak(ctx)
	if err != nil {
		t.Fatalf("GetStreak() failed: %v", err)
	}
	if st != want {
		t.Errorf("streak = %+v, want %+v", st, want)
	}
}

func TestUser_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.GetUser(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser() on empty store = %v, want ErrNotFound", err)
	}

	if err := s.SaveUser(ctx, UserProfile{ID: "guest-1", IsGuest: true}); err != nil {
		t.Fatalf("SaveUser() failed: %v", err)
	}

	u, err := s.GetUser(ctx)
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	if u.ID != "guest-1" || !u.IsGuest {
		t.Errorf("user = %+v", u)
	}

	// Upgrading the guest to an account replaces the singleton.
	if err := s.SaveUser(ctx, UserProfile{ID: "acct-9", Email: "p@example.com", IsGuest: false}); err != nil {
		t.Fatalf("SaveUser() upgrade failed: %v", err)
	}
	u, err = s.GetUser(ctx)
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	if u.ID != "acct-9" || u.IsGuest {
		t.Errorf("upgraded user = %+v", u)
	}
}

func TestSaveAchievement_WriteOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inserted, err := s.SaveAchievement(ctx, "first-win", map[string]any{"date": "2024-01-10", "score": 180})
	if err != nil {
		t.Fatalf("SaveAchievement() failed: %v", err)
	}
	if !inserted {
		t.Error("first unlock must report inserted")
	}

	inserted, err = s.SaveAchievement(ctx, "first-win", map[string]any{"date": "2024-01-11"})
	if err != nil {
		t.Fatalf("repeat SaveAchievement() failed: %v", err)
	}
	if inserted {
		t.Error("repeat unlock must be a no-op")
	}

	unlocks, err := s.Achievements(ctx)
	if err != nil {
		t.Fatalf("Achievements() failed: %v", err)
	}
	if len(unlocks) != 1 {
		t.Fatalf("len(unlocks) = %d, want 1", len(unlocks))
	}
	if unlocks[0].Metadata["date"] != "2024-01-10" {
		t.Errorf("metadata = %v, want the original unlock's", unlocks[0].Metadata)
	}

	has, err := s.HasAchievement(ctx, "first-win")
	if err != nil {
		t.Fatalf("HasAchievement() failed: %v", err)
	}
	if !has {
		t.Error("HasAchievement() = false after unlock")
	}
}
