// Package store provides SQLite-backed durable storage for evaluation logs.
//
// The log is append-only and holds two kinds of records:
//   - Evaluations: one row per expression evaluated in a session
//   - Definition sets: the named bindings an evaluation was made against,
//     keyed by the definitions hash folded into each evaluation ID
//
// Writes are idempotent (ON CONFLICT DO NOTHING on content-addressed keys),
// so re-recording a replayed session is harmless.
//
// All reads are ordered ORDER BY seq ASC, id ASC COLLATE BINARY, which gives
// identical results across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single connection: SQLite allows one writer
package store
