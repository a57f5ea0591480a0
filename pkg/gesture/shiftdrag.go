package gesture

import (
	"github.com/bleviet/regcraft/pkg/layout"
	"github.com/bleviet/regcraft/pkg/regmap"
)

// ShiftMode is the shift-drag machine state.
type ShiftMode int

const (
	// ShiftIdle means no gesture is in progress.
	ShiftIdle ShiftMode = iota
	// ShiftResizing means an existing field's edge is being dragged.
	ShiftResizing
	// ShiftCreating means a new field is being drawn over an empty span.
	ShiftCreating
)

// ResizeFunc receives the committed range of a resize gesture.
type ResizeFunc func(fieldIndex int, hi, lo uint)

// CreateFunc receives the committed range of a create gesture.
type CreateFunc func(hi, lo uint)

// ShiftDrag is the resize/create gesture machine. The zero value is idle but
// has no callbacks; use NewShiftDrag.
type ShiftDrag struct {
	mode       ShiftMode
	fieldIndex int
	anchor     uint
	current    uint
	minBit     uint
	maxBit     uint

	onResize ResizeFunc
	onCreate CreateFunc
}

// NewShiftDrag creates an idle machine with the given commit callbacks.
// Either callback may be nil, which turns that commit path into a no-op.
func NewShiftDrag(onResize ResizeFunc, onCreate CreateFunc) *ShiftDrag {
	return &ShiftDrag{mode: ShiftIdle, fieldIndex: -1, onResize: onResize, onCreate: onCreate}
}

// Active reports whether a gesture is in progress.
func (d *ShiftDrag) Active() bool { return d.mode != ShiftIdle }

// Mode returns the current machine state.
func (d *ShiftDrag) Mode() ShiftMode { return d.mode }

// Start enters a gesture at the given bit of the register. On an occupied
// bit the machine enters resize mode: the anchor is the edge of the owning
// field opposite the grabbed half, and movement is bounded by the nearest
// neighboring fields so a resize can never cross another field. On an empty
// bit the machine enters create mode, bounded by the contiguous empty span
// containing the bit.
//
// Start returns false, leaving the machine idle, when a gesture is already
// active or the bit lies outside the register.
func (d *ShiftDrag) Start(fields []regmap.BitField, registerSize, bit uint) bool {
	if d.Active() || bit >= registerSize {
		return false
	}

	if owner := layout.FieldOwning(fields, bit); owner >= 0 {
		f := fields[owner]
		d.mode = ShiftResizing
		d.fieldIndex = owner
		// Grabbing the high half drags the high edge, so anchor the low one.
		if bit >= f.Lo()+f.BitWidth/2 {
			d.anchor = f.Lo()
		} else {
			d.anchor = f.Hi()
		}
		d.minBit, d.maxBit = neighborBounds(fields, owner, registerSize)
	} else {
		d.mode = ShiftCreating
		d.fieldIndex = -1
		d.anchor = bit
		d.minBit, d.maxBit = emptySpan(fields, bit, registerSize)
	}
	d.current = bit
	return true
}

// Move updates the live position, clamping to the movement bound. A no-op
// when idle.
func (d *ShiftDrag) Move(bit uint) {
	if !d.Active() {
		return
	}
	d.current = min(max(bit, d.minBit), d.maxBit)
}

// Preview returns the provisional [hi:lo] range of the gesture for live
// rendering. ok is false when idle.
func (d *ShiftDrag) Preview() (hi, lo uint, ok bool) {
	if !d.Active() {
		return 0, 0, false
	}
	return max(d.anchor, d.current), min(d.anchor, d.current), true
}

// Commit fires the callback for the final range and returns to idle. Resize
// always commits; create commits only when the drag ended at or above its
// anchor bit.
func (d *ShiftDrag) Commit() {
	mode, idx := d.mode, d.fieldIndex
	hi, lo := max(d.anchor, d.current), min(d.anchor, d.current)
	anchor, current := d.anchor, d.current
	d.reset()

	switch mode {
	case ShiftResizing:
		if d.onResize != nil {
			d.onResize(idx, hi, lo)
		}
	case ShiftCreating:
		if anchor <= current && d.onCreate != nil {
			d.onCreate(current, anchor)
		}
	}
}

// Cancel discards the gesture without calling back.
func (d *ShiftDrag) Cancel() { d.reset() }

func (d *ShiftDrag) reset() {
	d.mode = ShiftIdle
	d.fieldIndex = -1
	d.anchor, d.current, d.minBit, d.maxBit = 0, 0, 0, 0
}

// neighborBounds computes the movement bound for resizing fields[idx]: the
// gap between the nearest positioned neighbor below and above, or the
// register edges where there is none.
func neighborBounds(fields []regmap.BitField, idx int, registerSize uint) (minBit, maxBit uint) {
	f := fields[idx]
	minBit, maxBit = 0, registerSize-1
	for i, other := range fields {
		if i == idx || other.BitWidth == 0 {
			continue
		}
		if other.Hi() < f.Lo() && other.Hi()+1 > minBit {
			minBit = other.Hi() + 1
		}
		if other.Lo() > f.Hi() && other.Lo()-1 < maxBit {
			maxBit = other.Lo() - 1
		}
	}
	return minBit, maxBit
}

// emptySpan walks outward from bit while neighboring bits are unowned,
// returning the full contiguous empty span containing bit.
func emptySpan(fields []regmap.BitField, bit, registerSize uint) (minBit, maxBit uint) {
	minBit, maxBit = bit, bit
	for minBit > 0 && layout.FieldOwning(fields, minBit-1) < 0 {
		minBit--
	}
	for maxBit+1 < registerSize && layout.FieldOwning(fields, maxBit+1) < 0 {
		maxBit++
	}
	return minBit, maxBit
}
