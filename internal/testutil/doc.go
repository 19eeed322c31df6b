// Package testutil provides deterministic stand-ins for the engine's
// nondeterministic collaborators: random draws, tickers and the display.
//
// Everything here is safe for concurrent use, so the same helpers serve
// tests that drive the engine directly and tests that run Engine.Run on
// its own goroutine.
package testutil
