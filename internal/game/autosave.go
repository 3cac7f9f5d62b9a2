package game

import (
	"context"
	"sync"
	"time"

	"github.com/marcward/gridstreak/internal/puzzle"
	"github.com/marcward/gridstreak/internal/store"
)

// defaultSaveInterval is the debounce window between progress writes.
// Rapid fills inside one window coalesce into a single row update.
const defaultSaveInterval = time.Second

type pendingSave struct {
	date string
	p    *puzzle.Puzzle
	grid [][]puzzle.Cell
	meta store.ProgressMeta
}

// Autosaver debounces progress writes on the leading edge: the first
// save in a quiet period hits the store immediately, later saves for
// the same day inside the window are held and coalesced (latest wins)
// until the window passes or Flush runs. A save for a different day
// writes any held snapshot through first, so switching days never drops
// an edit.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type Autosaver struct {
	store    *store.Store
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	lastWrite time.Time
	pending   *pendingSave
}

// NewAutosaver creates an autosaver over the store. interval <= 0 means
// the default window; now may be nil for time.Now.
func NewAutosaver(st *store.Store, interval time.Duration, now func() time.Time) *Autosaver {
	if interval <= 0 {
		interval = defaultSaveInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Autosaver{store: st, interval: interval, now: now}
}

// Save records one progress snapshot. Outside the debounce window it is
// written through immediately; inside, it replaces any held snapshot.
// The grid is copied, so the caller may keep mutating its own.
func (a *Autosaver) Save(ctx context.Context, date string, p *puzzle.Puzzle, grid [][]puzzle.Cell, meta store.ProgressMeta) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// The slot only ever coalesces edits of one day. A held snapshot for
	// another date writes through before anything can replace it.
	if a.pending != nil && a.pending.date != date {
		held := a.pending
		a.pending = nil
		if err := a.store.SavePuzzleProgress(ctx, held.date, held.p, held.grid, held.meta); err != nil {
			return err
		}
		a.lastWrite = a.now()
	}

	snapshot := pendingSave{date: date, p: p, grid: puzzle.CloneGrid(grid), meta: meta}

	t := a.now()
	if !a.lastWrite.IsZero() && t.Sub(a.lastWrite) < a.interval {
		a.pending = &snapshot
		return nil
	}

	a.pending = nil
	a.lastWrite = t
	return a.store.SavePuzzleProgress(ctx, snapshot.date, snapshot.p, snapshot.grid, snapshot.meta)
}

// Flush writes any held snapshot through. Safe to call with nothing
// pending.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending == nil {
		return nil
	}
	snapshot := a.pending
	a.pending = nil
	a.lastWrite = a.now()
	return a.store.SavePuzzleProgress(ctx, snapshot.date, snapshot.p, snapshot.grid, snapshot.meta)
}
