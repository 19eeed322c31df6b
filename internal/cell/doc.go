// Package cell holds the typed memory cells that external tools probe.
//
// There is one cell per Representation, all live at the same time. Each
// cell is a single 8-byte word on the heap; the typed value sits in the
// word's low-order bytes, which start at byte 0 on little-endian hosts.
// AddressOf reports the address of the typed value itself, so a scanner
// reading Size() bytes at that address sees exactly the value Read returns.
//
// Go's collector does not move heap objects, so addresses are stable for
// the life of the Store. Every store and load is a sequentially consistent
// atomic on the word: writes are never elided or reordered, and writes made
// by another process are seen on the next Read.
//
// Write never fails. Values pass through Coerce, which clamps them into the
// cell's legal range.
package cell
