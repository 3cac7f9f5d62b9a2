package store

import (
	"path/filepath"
	"testing"

	"github.com/marcward/gridstreak/internal/puzzle"
)

// openTestStore creates a store backed by a temp-dir SQLite file that is
// cleaned up with the test.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "gridstreak.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	})
	return s
}

// testPuzzle generates a deterministic puzzle for progress tests.
func testPuzzle(t *testing.T, date string) *puzzle.Puzzle {
	t.Helper()

	p, err := puzzle.NewGenerator("test-secret").Generate(date, puzzle.TypeSudoku)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	return p
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
