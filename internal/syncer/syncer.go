// Package syncer reconciles the local store with the remote score
// service in both directions.
//
// Push is at-least-once: a record is marked synced only on a confirmed
// accept (or duplicate) from the remote, so any failure leaves it
// queued for the next trigger. The remote upserts by (user, date),
// which makes resubmission harmless. Pull treats the remote as
// authoritative for score rows and merges activity rows under the
// max-score-wins rule so an offline-only local result is never
// downgraded.
//
// Push and pull may be triggered concurrently (reconnect, session
// start, completion); both reduce to per-key upserts in the store, so
// interleavings converge.
package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/marcward/gridstreak/internal/store"
)

// Engine drives both sync directions.
type Engine struct {
	store  *store.Store
	client Client
	log    *slog.Logger
}

// New creates a sync engine. logger may be nil for the default.
func New(st *store.Store, client Client, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: st, client: client, log: logger}
}

// PushResult summarizes one push pass.
type PushResult struct {
	// Synced counts records confirmed by the remote in this pass.
	Synced int

	// Failed counts records that stayed unsynced (transport failures).
	Failed int

	// Rejected counts records the remote refused outright; they also
	// stay unsynced but retrying without changing them is pointless.
	Rejected int
}

// PushUnsynced submits every unsynced score record individually and
// marks each synced only on a confirmed accept. A per-record failure is
// logged and skipped; the record stays queued for the next trigger.
func (e *Engine) PushUnsynced(ctx context.Context, userID string) (PushResult, error) {
	unsynced, err := e.store.UnsyncedScores(ctx)
	if err != nil {
		return PushResult{}, fmt.Errorf("push unsynced: %w", err)
	}

	var res PushResult
	for _, rec := range unsynced {
		result, err := e.client.SubmitScore(ctx, userID, rec)
		if err != nil {
			if IsRejected(err) {
				// Tampered or malformed by the remote's rules. Never
				// trusted as sync-of-record; surfaced only in logs.
				e.log.Warn("remote rejected score", "date", rec.Date, "error", err)
				res.Rejected++
				continue
			}
			e.log.Warn("score push failed, will retry", "date", rec.Date, "error", err)
			res.Failed++
			continue
		}
		if !result.Accepted {
			res.Failed++
			continue
		}

		if err := e.store.MarkScoreSynced(ctx, rec.Date); err != nil {
			return res, fmt.Errorf("push unsynced: mark %s: %w", rec.Date, err)
		}
		if err := e.store.MarkActivitySynced(ctx, rec.Date); err != nil {
			return res, fmt.Errorf("push unsynced: mark activity %s: %w", rec.Date, err)
		}
		res.Synced++
	}

	e.log.Info("push complete", "synced", res.Synced, "failed", res.Failed, "rejected", res.Rejected)
	return res, nil
}

// PullResult summarizes one pull pass.
type PullResult struct {
	// Fetched counts remote records seen.
	Fetched int

	// Merged counts activity rows the max-score-wins rule applied.
	Merged int
}

// PullAndMerge fetches the remote history and folds it into the local
// store. Score rows land synced (remote is authoritative for sync
// state); activity rows merge under max-score-wins.
func (e *Engine) PullAndMerge(ctx context.Context, userID string) (PullResult, error) {
	remote, err := e.client.FetchScores(ctx, userID)
	if err != nil {
		return PullResult{}, fmt.Errorf("pull and merge: %w", err)
	}

	res := PullResult{Fetched: len(remote)}
	for _, r := range remote {
		if err := e.store.UpsertScoreFromSync(ctx, store.ScoreRecord{
			Date:           r.Date,
			Score:          r.Score,
			CompletionTime: r.CompletionTime,
			HintsUsed:      r.HintsUsed,
			PuzzleType:     r.PuzzleType,
			Difficulty:     r.Difficulty,
		}); err != nil {
			return res, fmt.Errorf("pull and merge: score %s: %w", r.Date, err)
		}

		applied, err := e.store.UpsertActivityFromSync(ctx, store.ActivityRecord{
			Date:       r.Date,
			Completed:  true,
			Score:      r.Score,
			Difficulty: r.Difficulty,
		})
		if err != nil {
			return res, fmt.Errorf("pull and merge: activity %s: %w", r.Date, err)
		}
		if applied {
			res.Merged++
		}
	}

	e.log.Info("pull complete", "fetched", res.Fetched, "merged", res.Merged)
	return res, nil
}
