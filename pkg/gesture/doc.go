// Package gesture implements the pointer-drag state machines of the bit-grid
// visualizer: shift-drag (resize an existing field or create a new one over
// an empty span) and ctrl-drag (reorder fields with a live preview).
//
// The machines are deliberately independent of any input-event binding: the
// TUI feeds them logical bit positions derived from mouse events, and tests
// drive them directly. Each machine exposes Start/Move/Commit/Cancel plus an
// Active guard; starting a machine that is already active is rejected, so
// the caller either checks Active or force-cancels first.
//
// Failure policy: a movement that cannot find a valid clamp or target is a
// no-op and the previous valid state is retained. Nothing observable changes
// until Commit - only the commit callbacks mutate the persisted model, and
// the ctrl-drag commit submits every field range as one atomic batch so no
// intermediate overlapping state can be seen.
package gesture
