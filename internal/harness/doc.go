// Package harness runs YAML scenarios against a real mutation engine.
//
// A scenario pins every source of nondeterminism: random draws come from a
// scripted list, tickers only fire when a step says so, the clipboard is in
// memory and the pid is fixed. Each step is one UI action (a command, a
// selection), one or more auto ticks, or a write into a cell from outside
// the engine. After every step the harness records a trace event built from
// the engine's panel, and checks the step's optional expect block.
//
// Trace events leave out the cell address, which changes from run to run,
// so the same scenario always produces byte-identical traces. RunWithGolden
// compares them against testdata/golden/<name>.golden.
//
// Example scenario:
//
//	name: auto_countdown
//	description: three paced mutations then idle
//	draws:
//	  ints: [0, 1]
//	steps:
//	  - command: start_auto
//	    fields: {count: "3"}
//	    expect: {auto_remaining: 3}
//	  - tick: auto
//	    times: 3
//	    expect: {value: "1003", status: auto finished}
package harness
