package layout

import (
	"sort"

	"github.com/bleviet/regcraft/pkg/regmap"
)

// SegmentKind distinguishes field segments from unused gaps.
type SegmentKind int

const (
	// SegmentField is a span owned by a bit field.
	SegmentField SegmentKind = iota
	// SegmentGap is an unused span between fields.
	SegmentGap
)

// Segment is a contiguous span of bits in the visualizer's layout model.
// Segments are ordered MSB to LSB and partition [0, registerSize) exactly:
// every bit belongs to exactly one segment. Start is the high bit, End the
// low bit (Start >= End, both inclusive).
//
// Segments are ephemeral: they are derived on demand from the field list and
// never persisted.
type Segment struct {
	Kind       SegmentKind
	FieldIndex int // index into the source field list; -1 for gaps
	Start      uint
	End        uint
	Name       string
	Color      int // palette slot for rendering; derived from the field index
}

// Width returns the number of bits the segment covers.
func (s Segment) Width() uint { return s.Start - s.End + 1 }

// Contains reports whether bit falls inside the segment.
func (s Segment) Contains(bit uint) bool { return bit >= s.End && bit <= s.Start }

// paletteSize is the number of distinct field colors the renderer cycles
// through.
const paletteSize = 6

// BuildSegments converts a field list into the ordered MSB-to-LSB partition
// of [0, registerSize). Fields are taken at their current positions (sorted
// descending by high bit); any uncovered span becomes a gap segment, merged
// by construction so no two gaps are ever adjacent. Fields without a usable
// position, and portions of malformed overlapping fields, are clipped out
// rather than breaking the partition.
func BuildSegments(fields []regmap.BitField, registerSize uint) []Segment {
	type entry struct {
		idx   int
		field regmap.BitField
	}
	entries := make([]entry, 0, len(fields))
	for i, f := range fields {
		if f.BitWidth == 0 || f.Lo() >= registerSize {
			continue
		}
		entries = append(entries, entry{idx: i, field: f})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].field.Hi() > entries[j].field.Hi()
	})

	segments := make([]Segment, 0, 2*len(entries)+1)
	cursor := int64(registerSize) - 1

	for _, e := range entries {
		hi, lo := int64(e.field.Hi()), int64(e.field.Lo())
		if hi > cursor {
			hi = cursor // clip overlap with the previous field
		}
		if hi < lo || cursor < 0 {
			continue // fully shadowed by an overlapping neighbor
		}
		if hi < cursor {
			segments = append(segments, Segment{
				Kind:       SegmentGap,
				FieldIndex: -1,
				Start:      uint(cursor),
				End:        uint(hi + 1),
			})
		}
		segments = append(segments, Segment{
			Kind:       SegmentField,
			FieldIndex: e.idx,
			Start:      uint(hi),
			End:        uint(lo),
			Name:       e.field.Name,
			Color:      e.idx % paletteSize,
		})
		cursor = lo - 1
	}

	if cursor >= 0 {
		segments = append(segments, Segment{
			Kind:       SegmentGap,
			FieldIndex: -1,
			Start:      uint(cursor),
			End:        0,
		})
	}
	return segments
}

// RepackSegments reassigns contiguous positions to every segment based on
// width alone, preserving segment order. The list stays MSB-first; positions
// are dealt from bit 0 upward starting at the bottom of the list, so
// inserting a segment at the top of the list keeps everything below it
// stable. The input is never mutated.
func RepackSegments(segments []Segment) []Segment {
	out := make([]Segment, len(segments))
	copy(out, segments)
	var cursor uint
	for i := len(out) - 1; i >= 0; i-- {
		w := out[i].Width()
		out[i].End = cursor
		out[i].Start = cursor + w - 1
		cursor += w
	}
	return out
}

// SegmentAt returns the index of the segment containing bit, or -1 when bit
// lies outside the partition.
func SegmentAt(segments []Segment, bit uint) int {
	for i, s := range segments {
		if s.Contains(bit) {
			return i
		}
	}
	return -1
}

// TotalWidth sums the widths of all segments.
func TotalWidth(segments []Segment) uint {
	var sum uint
	for _, s := range segments {
		sum += s.Width()
	}
	return sum
}
