// Package journal provides SQLite-backed storage for test run history.
//
// The journal is an append-only log with one row per executed group:
// the run it belongs to, the group name, whether every test in the
// group passed, and when it was recorded. Rows are never updated; the
// history view reads them back newest first.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Run identifiers are UUIDv7 strings minted by the caller, so rows from
// the same process invocation share a run_id and sort by creation time.
package journal
