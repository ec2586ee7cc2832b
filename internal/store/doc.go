// Package store provides the SQLite-backed run ledger.
//
// Every successful sync run appends one row to runs and one row per
// instrument to run_instruments. The JSON archive stays the source of truth
// for snapshots; the ledger answers questions across runs, such as when an
// instrument's status changed.
//
// # Ordering
//
// Runs carry a seq INTEGER assigned at insert time. All listings order by
// seq, never by wall time, so two runs on the same date keep their order.
//
// # Idempotency
//
// Run IDs are UUIDv7 values minted by the caller. Writing the same run ID
// twice is a no-op (ON CONFLICT DO NOTHING).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
