package store

import (
	"context"
	"errors"
	"testing"

	"github.com/marcward/gridstreak/internal/puzzle"
)

func TestSavePuzzleProgress_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := testPuzzle(t, "2024-01-10")
	grid := puzzle.CloneGrid(p.Grid)
	grid[0][0] = puzzle.Cell{Value: 3, Revealed: true}

	err := s.SavePuzzleProgress(ctx, "2024-01-10", p, grid, ProgressMeta{HasStarted: boolPtr(true)})
	if err != nil {
		t.Fatalf("SavePuzzleProgress() failed: %v", err)
	}

	rec, err := s.GetPuzzleProgress(ctx, "2024-01-10")
	if err != nil {
		t.Fatalf("GetPuzzleProgress() failed: %v", err)
	}

	if rec.Completed {
		t.Error("fresh progress must not be completed")
	}
	if !rec.HasStarted {
		t.Error("HasStarted not persisted")
	}
	if rec.Puzzle.Seed != p.Seed {
		t.Errorf("puzzle seed = %q, want %q", rec.Puzzle.Seed, p.Seed)
	}
	if rec.Progress[0][0].Value != 3 || !rec.Progress[0][0].Revealed {
		t.Errorf("grid edit not persisted: %+v", rec.Progress[0][0])
	}
}

func TestSavePuzzleProgress_NilMetaKeepsStoredValues(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := testPuzzle(t, "2024-01-10")
	err := s.SavePuzzleProgress(ctx, "2024-01-10", p, p.Grid, ProgressMeta{
		CompletionTime: intPtr(95),
		HintsUsed:      intPtr(2),
		HasStarted:     boolPtr(true),
	})
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// A later autosave with no meta must not wipe the stored fields.
	if err := s.SavePuzzleProgress(ctx, "2024-01-10", p, p.Grid, ProgressMeta{}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	rec, err := s.GetPuzzleProgress(ctx, "2024-01-10")
	if err != nil {
		t.Fatalf("GetPuzzleProgress() failed: %v", err)
	}
	if rec.CompletionTime != 95 || rec.HintsUsed != 2 || !rec.HasStarted {
		t.Errorf("meta clobbered by nil-meta save: %+v", rec)
	}
}

func TestSavePuzzleProgress_DoesNotRevertCompletion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := testPuzzle(t, "2024-01-10")
	if err := s.SavePuzzleProgress(ctx, "2024-01-10", p, p.Grid, ProgressMeta{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.MarkPuzzleComplete(ctx, "2024-01-10", 180, 120, 0); err != nil {
		t.Fatalf("MarkPuzzleComplete() failed: %v", err)
	}

	// A straggling autosave after completion keeps the terminal state.
	if err := s.SavePuzzleProgress(ctx, "2024-01-10", p, p.Grid, ProgressMeta{}); err != nil {
		t.Fatalf("post-completion save failed: %v", err)
	}

	rec, err := s.GetPuzzleProgress(ctx, "2024-01-10")
	if err != nil {
		t.Fatalf("GetPuzzleProgress() failed: %v", err)
	}
	if !rec.Completed {
		t.Error("completion reverted by autosave")
	}
	if rec.Score != 180 {
		t.Errorf("score = %d, want 180", rec.Score)
	}
}

func TestMarkPuzzleComplete_UnknownDate(t *testing.T) {
	s := openTestStore(t)

	err := s.MarkPuzzleComplete(context.Background(), "2024-02-01", 100, 60, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetPuzzleProgress_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetPuzzleProgress(context.Background(), "1999-01-01")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
