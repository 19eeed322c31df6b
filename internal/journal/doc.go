// Package journal provides an optional SQLite log of applied mutations.
//
// The journal is ground truth for an external observer: every value the
// engine stores is recorded with its cell address, the value before and
// after, and the random or user-supplied delta. It is an audit trail only;
// cells always start from their defaults and nothing is ever restored from
// the journal.
//
// # Ordering
//
// Mutations are ordered by the engine's logical seq within a session, never
// by wall-clock time. Every query includes ORDER BY seq ASC.
//
// # Database Configuration
//
//   - WAL mode: readers can inspect a live journal
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: mutations must reference a session
//
// Writes happen on the Recorder's goroutine so the engine loop never waits
// on disk.
package journal
