package layout

// span is the direction-agnostic unit the repack core operates on: a start
// position and a width in some linear coordinate space (bits for fields,
// bytes for registers and blocks). Positions are signed so out-of-range
// intermediate results stay representable for post-validation.
type span struct {
	start int64
	width int64
}

func (s span) end() int64 { return s.start + s.width - 1 }

// repackForward lays out spans[from:] in ascending order: each element starts
// immediately after its predecessor ends. The element at index 0 anchors at
// position 0. Widths are preserved except for the final element, whose end is
// clamped to bound-1; if clamping shrinks it, its width shrinks with it so
// start+width-1 == end keeps holding. Elements before from are untouched.
//
// The result may still be invalid (an element past the bound, a width driven
// to zero or below); callers validate with validSpans.
func repackForward(spans []span, from int, bound int64) []span {
	out := make([]span, len(spans))
	copy(out, spans)
	if from < 0 {
		from = 0
	}
	for i := from; i < len(out); i++ {
		if i == 0 {
			out[i].start = 0
		} else {
			out[i].start = out[i-1].end() + 1
		}
	}
	if n := len(out); n > 0 && out[n-1].end() > bound-1 {
		out[n-1].width = bound - out[n-1].start
	}
	return out
}

// repackBackward is the symmetric variant: it propagates from index from down
// toward index 0, each element ending immediately before its successor
// starts. When from is the last element it anchors at bound-1. The lowest
// element's start is clamped to 0, shrinking its width if needed.
func repackBackward(spans []span, from int, bound int64) []span {
	out := make([]span, len(spans))
	copy(out, spans)
	if from > len(out)-1 {
		from = len(out) - 1
	}
	for i := from; i >= 0; i-- {
		var end int64
		if i == len(out)-1 {
			end = bound - 1
		} else {
			end = out[i+1].start - 1
		}
		out[i].start = end - out[i].width + 1
	}
	if len(out) > 0 && out[0].start < 0 {
		out[0].width += out[0].start
		out[0].start = 0
	}
	return out
}

// validSpans reports whether every span lies inside [0, bound) with a
// positive width. This is the post-repack fit check the insertion service
// performs before committing.
func validSpans(spans []span, bound int64) bool {
	for _, s := range spans {
		if s.width < 1 || s.start < 0 || s.end() > bound-1 {
			return false
		}
	}
	return true
}

// mirror reflects a span list across [0, bound): position p maps to
// bound-1-p. Mirroring converts an MSB-descending collection into an
// ascending one and back, letting the ascending core serve both order
// conventions.
func mirror(spans []span, bound int64) []span {
	out := make([]span, len(spans))
	for i, s := range spans {
		out[i] = span{start: bound - 1 - s.end(), width: s.width}
	}
	return out
}
