// Package store provides SQLite-backed offline-first storage for the
// daily puzzle core.
//
// The store holds six logical collections, each addressed by a stable
// string key:
//   - puzzles:      per-date progress records (puzzle payload + player grid)
//   - scores:       per-date score records with a sync flag
//   - activity:     per-date denormalized history for the heatmap
//   - achievements: write-once unlock records keyed by achievement key
//   - streak:       the "current" streak singleton
//   - user_profile: the "profile" user singleton
//
// # Critical Patterns
//
// CP-1: Per-Key Upserts Only
//   - Every write is a single-key upsert; there is no cross-collection
//     transaction. Callers sequence dependent writes and tolerate
//     partial application on interruption.
//
// CP-2: Sync Flags Are One-Way
//   - scores.synced transitions 0 -> 1 only, via the sync engine.
//
// CP-3: Max-Score-Wins Merge
//   - UpsertActivityFromSync applies an incoming record only when no
//     local row exists or the incoming score is >= the local one.
//
// CP-4: Versioned Payloads
//   - Puzzle and grid payloads are stored as JSON under an explicit
//     schema_version envelope so stored data can be migrated.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// Reads never touch the network. ClearAll wipes every collection and is
// used only on explicit logout.
package store
