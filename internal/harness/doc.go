// Package harness runs multi-day play scenarios end to end.
//
// A scenario is a YAML file describing a sequence of daily attempts
// (solves, invalid grids, abandoned days) against one local store. The
// runner executes the sequence through the real session, then renders a
// summary of per-day outcomes and final state that golden tests compare
// byte for byte. Because puzzle generation and scoring are pure
// functions of (date, secret), summaries are fully deterministic.
package harness
