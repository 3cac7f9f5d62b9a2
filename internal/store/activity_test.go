package store

import (
	"context"
	"testing"
)

func TestUpsertActivityFromSync_MaxScoreWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	local := ActivityRecord{Date: "2024-02-01", Completed: true, Score: 180, Difficulty: "medium"}
	if err := s.SaveActivity(ctx, local); err != nil {
		t.Fatalf("SaveActivity() failed: %v", err)
	}

	// Weaker remote record must not clobber the local result.
	applied, err := s.UpsertActivityFromSync(ctx, ActivityRecord{
		Date: "2024-02-01", Completed: true, Score: 150, Difficulty: "easy",
	})
	if err != nil {
		t.Fatalf("UpsertActivityFromSync(150) failed: %v", err)
	}
	if applied {
		t.Error("weaker remote record was applied")
	}

	rec, err := s.GetActivity(ctx, "2024-02-01")
	if err != nil {
		t.Fatalf("GetActivity() failed: %v", err)
	}
	if rec.Score != 180 {
		t.Errorf("score = %d, want local 180", rec.Score)
	}
	if rec.Synced {
		t.Error("rejected merge must not flip the sync flag")
	}

	// Stronger remote record replaces and lands synced.
	applied, err = s.UpsertActivityFromSync(ctx, ActivityRecord{
		Date: "2024-02-01", Completed: true, Score: 220, Difficulty: "hard",
	})
	if err != nil {
		t.Fatalf("UpsertActivityFromSync(220) failed: %v", err)
	}
	if !applied {
		t.Error("stronger remote record was not applied")
	}

	rec, err = s.GetActivity(ctx, "2024-02-01")
	if err != nil {
		t.Fatalf("GetActivity() failed: %v", err)
	}
	if rec.Score != 220 {
		t.Errorf("score = %d, want remote 220", rec.Score)
	}
	if !rec.Synced {
		t.Error("applied merge must land synced")
	}
}

func TestUpsertActivityFromSync_TieGoesToIncoming(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveActivity(ctx, ActivityRecord{Date: "2024-02-01", Completed: true, Score: 180, Difficulty: "medium"}); err != nil {
		t.Fatalf("SaveActivity() failed: %v", err)
	}

	// Equal scores: the incoming record wins and brings its own
	// difficulty/type along.
	applied, err := s.UpsertActivityFromSync(ctx, ActivityRecord{
		Date: "2024-02-01", Completed: true, Score: 180, Difficulty: "hard",
	})
	if err != nil {
		t.Fatalf("UpsertActivityFromSync() failed: %v", err)
	}
	if !applied {
		t.Error("tying remote record was not applied")
	}

	rec, err := s.GetActivity(ctx, "2024-02-01")
	if err != nil {
		t.Fatalf("GetActivity() failed: %v", err)
	}
	if rec.Difficulty != "hard" || !rec.Synced {
		t.Errorf("tie merge result = %+v, want incoming difficulty and synced", rec)
	}
}

func TestUpsertActivityFromSync_NoLocalRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	applied, err := s.UpsertActivityFromSync(ctx, ActivityRecord{
		Date: "2024-02-05", Completed: true, Score: 140, Difficulty: "easy",
	})
	if err != nil {
		t.Fatalf("UpsertActivityFromSync() failed: %v", err)
	}
	if !applied {
		t.Error("insert into empty date must apply")
	}
}

func TestActivityRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2024-01-05", "2024-01-10", "2024-01-15", "2024-02-01"} {
		if err := s.SaveActivity(ctx, ActivityRecord{Date: date, Completed: true, Score: 100, Difficulty: "easy"}); err != nil {
			t.Fatalf("SaveActivity(%s) failed: %v", date, err)
		}
	}

	got, err := s.ActivityRange(ctx, "2024-01-08", "2024-01-31")
	if err != nil {
		t.Fatalf("ActivityRange() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Date != "2024-01-10" || got[1].Date != "2024-01-15" {
		t.Errorf("range = [%s, %s], want [2024-01-10, 2024-01-15]", got[0].Date, got[1].Date)
	}
}

func TestUnsyncedActivity_AndMark(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveActivity(ctx, ActivityRecord{Date: "2024-01-05", Completed: true, Score: 100, Difficulty: "easy"}); err != nil {
		t.Fatalf("SaveActivity() failed: %v", err)
	}
	if _, err := s.UpsertActivityFromSync(ctx, ActivityRecord{Date: "2024-01-06", Completed: true, Score: 200, Difficulty: "hard"}); err != nil {
		t.Fatalf("UpsertActivityFromSync() failed: %v", err)
	}

	unsynced, err := s.UnsyncedActivity(ctx)
	if err != nil {
		t.Fatalf("UnsyncedActivity() failed: %v", err)
	}
	if len(unsynced) != 1 || unsynced[0].Date != "2024-01-05" {
		t.Fatalf("unsynced = %+v, want only 2024-01-05", unsynced)
	}

	if err := s.MarkActivitySynced(ctx, "2024-01-05"); err != nil {
		t.Fatalf("MarkActivitySynced() failed: %v", err)
	}
	unsynced, err = s.UnsyncedActivity(ctx)
	if err != nil {
		t.Fatalf("UnsyncedActivity() after mark failed: %v", err)
	}
	if len(unsynced) != 0 {
		t.Errorf("unsynced = %+v, want empty", unsynced)
	}
}
