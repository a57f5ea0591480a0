// Package layout implements the spatial layout engine for register memory
// maps: repacking, spatial insertion, and the segment model used by the
// bit-grid visualizer.
//
// # Architecture
//
// The engine operates on three parallel families sharing one span core:
//
//   - bit fields within a register (bit positions, bound = register size)
//   - registers within an address block (byte offsets, 4-byte or
//     count*stride footprints)
//   - address blocks within a memory map (byte addresses, derived spans)
//
// Every operation is a pure function: it returns a new collection and never
// mutates its input. That makes the engine safe to call synchronously on
// every keystroke or pointer move.
//
// # Repacking
//
// Repack closes gaps and eliminates overlaps introduced by a preceding edit.
// It never changes element count or relative order, preserves each element's
// width except where the boundary clamp applies, and clamps rather than
// errors; whether the result still fits is validated separately by the
// insertion service.
//
// # Insertion
//
// InsertFieldAfter and friends follow a ten-step contract: compute the
// candidate position, bounds-check it, collision-check it against every other
// element, splice, repack directionally, re-sort, and post-validate. On any
// failure the original collection is returned untouched together with a
// structured error - insertion is all-or-nothing.
//
// # Segments
//
// BuildSegments converts a field list into an ordered MSB-to-LSB partition of
// [0, registerSize) made of field and gap segments. The partition is both the
// rendering model of the bit grid and the coordinate space for drag gestures.
package layout
