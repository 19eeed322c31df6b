// Package engine implements the memtrans mutation engine.
//
// The engine owns the selected representation, the mutation config, the
// auto-mutation countdown and the display pump, and applies set, add,
// subtract and randomized mutations to the selected cell.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// Every piece of engine state is touched by exactly one goroutine, the one
// running Engine.Run. The UI never calls mutation methods directly; it
// enqueues commands and selections, and Run interleaves them with two
// periodic sources:
//   - the refresh ticker (fixed short period, always active) that re-reads
//     the selected cell so writes from outside the process become visible
//   - the auto ticker (period = Config.Interval, active only while Running)
//
// No handler blocks and none runs concurrently with another, so no locking
// is needed. A tick never preempts a command half way through.
//
// Auto-mutation state machine:
//
//	Idle --StartAuto(n)--> Running(n)
//	Running(n) --tick--> Running(n-1)    n > 1
//	Running(1) --tick--> Idle            ticker stopped
//	Running(n) --StopAuto--> Idle        ticker stopped
//
// StopAuto takes effect before the next tick: a tick already buffered in
// the ticker channel finds the state Idle and does nothing.
//
// Logical Clock:
// Every applied store is stamped with a seq from Clock.Next(). The journal
// orders mutations by seq, never by wall-clock time.
//
// Error Handling:
// Commands that fail validation are aborted with a CommandError; cells and
// config are left untouched and the failure becomes the status line. There
// are no fatal errors inside the engine.
package engine
