package gesture

import (
	"github.com/bleviet/regcraft/pkg/layout"
	"github.com/bleviet/regcraft/pkg/regmap"
)

// FieldRange is one entry of a batched range update: the field at FieldIndex
// moves to [Hi:Lo].
type FieldRange struct {
	FieldIndex int
	Hi         uint
	Lo         uint
}

// PreviewFunc receives the provisional segment layout after each reorder
// step. A nil slice means the preview was cleared.
type PreviewFunc func(segments []layout.Segment)

// BatchFunc receives every field range of the final layout as one atomic
// update. Submitting the batch whole avoids any intermediate overlapping
// state being observed between single-field updates.
type BatchFunc func(updates []FieldRange)

// CtrlDrag is the reorder gesture machine. The zero value is idle but has no
// callbacks; use NewCtrlDrag.
type CtrlDrag struct {
	active       bool
	fieldIndex   int // field being dragged, by index into the field list
	base         []layout.Segment
	preview      []layout.Segment
	registerSize uint

	onPreview PreviewFunc
	onCommit  BatchFunc
}

// NewCtrlDrag creates an idle machine with the given callbacks. Either may
// be nil.
func NewCtrlDrag(onPreview PreviewFunc, onCommit BatchFunc) *CtrlDrag {
	return &CtrlDrag{fieldIndex: -1, onPreview: onPreview, onCommit: onCommit}
}

// Active reports whether a reorder is in progress.
func (d *CtrlDrag) Active() bool { return d.active }

// Preview returns the current provisional layout, or nil when idle.
func (d *CtrlDrag) Preview() []layout.Segment { return d.preview }

// Start enters a reorder gesture by grabbing the field under bit. The
// current segment layout is snapshotted as the coordinate space for the
// whole gesture. Returns false when already active or when bit does not fall
// on a field segment.
func (d *CtrlDrag) Start(fields []regmap.BitField, registerSize, bit uint) bool {
	if d.active || bit >= registerSize {
		return false
	}
	segments := layout.BuildSegments(fields, registerSize)
	i := layout.SegmentAt(segments, bit)
	if i < 0 || segments[i].Kind != layout.SegmentField {
		return false
	}
	d.active = true
	d.fieldIndex = segments[i].FieldIndex
	d.base = segments
	d.preview = segments
	d.registerSize = registerSize
	return true
}

// Move recomputes the preview for the pointer's bit position:
// the dragged segment is removed from the snapshot, the remainder is packed
// into a dense coordinate space, the pointer is mapped into that space to
// locate a target segment, the dragged segment is reinserted before or after
// the target depending on which half of it the pointer hit, and the whole
// list is repacked back to absolute bit positions. The result becomes the new
// preview and is published through the preview callback.
//
// A position that cannot be resolved leaves the previous preview in place.
func (d *CtrlDrag) Move(bit uint) {
	if !d.active {
		return
	}

	dragPos := -1
	for i, s := range d.base {
		if s.Kind == layout.SegmentField && s.FieldIndex == d.fieldIndex {
			dragPos = i
			break
		}
	}
	if dragPos < 0 {
		return
	}
	dragged := d.base[dragPos]

	rest := make([]layout.Segment, 0, len(d.base)-1)
	rest = append(rest, d.base[:dragPos]...)
	rest = append(rest, d.base[dragPos+1:]...)
	rest = mergeAdjacentGaps(rest)

	dense := layout.RepackSegments(rest)
	denseTotal := layout.TotalWidth(dense)
	if denseTotal == 0 {
		return
	}
	densePos := min(bit, denseTotal-1)

	ti := layout.SegmentAt(dense, densePos)
	if ti < 0 {
		return
	}
	target := dense[ti]

	// The list is MSB-first, so landing in the target's upper half inserts
	// on its high side (before it in list order). Gaps follow the same
	// midpoint split.
	at := ti + 1
	if densePos-target.End >= target.Width()/2 {
		at = ti
	}

	reordered := make([]layout.Segment, 0, len(rest)+1)
	reordered = append(reordered, rest[:at]...)
	reordered = append(reordered, dragged)
	reordered = append(reordered, rest[at:]...)

	d.preview = layout.RepackSegments(reordered)
	if d.onPreview != nil {
		d.onPreview(d.preview)
	}
}

// Commit converts every field segment of the final preview into a range
// update and submits them as one batch, then returns to idle.
func (d *CtrlDrag) Commit() {
	if !d.active {
		return
	}
	preview := d.preview
	d.reset()

	if d.onCommit == nil {
		return
	}
	updates := make([]FieldRange, 0, len(preview))
	for _, s := range preview {
		if s.Kind != layout.SegmentField {
			continue
		}
		updates = append(updates, FieldRange{FieldIndex: s.FieldIndex, Hi: s.Start, Lo: s.End})
	}
	d.onCommit(updates)
}

// Cancel discards the gesture and notifies the host that the preview is
// cleared.
func (d *CtrlDrag) Cancel() {
	if !d.active {
		return
	}
	d.reset()
	if d.onPreview != nil {
		d.onPreview(nil)
	}
}

func (d *CtrlDrag) reset() {
	d.active = false
	d.fieldIndex = -1
	d.base = nil
	d.preview = nil
	d.registerSize = 0
}

// mergeAdjacentGaps coalesces runs of gap segments left behind when a field
// segment is pulled out from between two gaps. Widths add; the hole the
// dragged field vacated is not free space, since the field re-enters the
// list elsewhere. Positions are stale after merging and only meaningful
// again once RepackSegments runs.
func mergeAdjacentGaps(segments []layout.Segment) []layout.Segment {
	out := make([]layout.Segment, 0, len(segments))
	for _, s := range segments {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.Kind == layout.SegmentGap && s.Kind == layout.SegmentGap {
				last.End = last.Start - (last.Width() + s.Width()) + 1
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
