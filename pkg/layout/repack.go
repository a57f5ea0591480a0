package layout

import (
	"github.com/bleviet/regcraft/pkg/regmap"
)

// =============================================================================
// Bit Fields
// =============================================================================

// RepackFieldsForward recomputes positions for fields[from:] so that each
// element starts immediately above its predecessor, preserving widths. The
// collection is taken in ascending order (lowest bit first), the order the
// insertion service maintains. registerSize bounds the top; the final element
// is clamped there, shrinking if necessary. fields before from keep their
// positions. The input is never mutated.
func RepackFieldsForward(fields []regmap.BitField, from int, registerSize uint) []regmap.BitField {
	spans := fieldSpans(fields)
	return applyFieldSpans(fields, repackForward(spans, from, int64(registerSize)))
}

// RepackFieldsBackward is the descending-direction variant: it propagates
// from index from down toward index 0, anchoring at the successor's start
// (or registerSize-1 when from is the last element) and clamping the lowest
// element at bit 0.
func RepackFieldsBackward(fields []regmap.BitField, from int, registerSize uint) []regmap.BitField {
	spans := fieldSpans(fields)
	return applyFieldSpans(fields, repackBackward(spans, from, int64(registerSize)))
}

// RepackFieldsTopDown serves field lists kept in MSB-descending order, the
// convention of the bit-grid visualizer where index 0 is the topmost field.
// Elements from index from onward are packed downward: each subsequent
// element ends immediately below its predecessor, the bottom element clamping
// at bit 0. Implemented by mirroring into ascending space, running the
// forward core, and mirroring back.
func RepackFieldsTopDown(fields []regmap.BitField, from int, registerSize uint) []regmap.BitField {
	bound := int64(registerSize)
	spans := mirror(fieldSpans(fields), bound)
	spans = repackForward(spans, from, bound)
	return applyFieldSpans(fields, mirror(spans, bound))
}

func fieldSpans(fields []regmap.BitField) []span {
	spans := make([]span, len(fields))
	for i, f := range fields {
		w := int64(f.BitWidth)
		if w < 1 {
			// Position unknown: repack treats it as a default 1-bit field.
			w = 1
		}
		spans[i] = span{start: int64(f.BitOffset), width: w}
	}
	return spans
}

func applyFieldSpans(fields []regmap.BitField, spans []span) []regmap.BitField {
	out := make([]regmap.BitField, len(fields))
	copy(out, fields)
	for i, s := range spans {
		if s.start < 0 || s.width < 1 {
			// Leave the stale position in place; the caller's validation
			// step decides whether the whole operation is discarded.
			continue
		}
		out[i].BitOffset = uint(s.start)
		out[i].BitWidth = uint(s.width)
		out[i].Bits = out[i].Range()
	}
	return out
}

// FieldsFit reports whether every field lies inside [0, registerSize) with a
// positive width.
func FieldsFit(fields []regmap.BitField, registerSize uint) bool {
	return validSpans(fieldSpans(fields), int64(registerSize))
}

// =============================================================================
// Registers
// =============================================================================

// RepackRegistersForward recomputes byte offsets for registers[from:] so that
// each element starts immediately after its predecessor's footprint ends.
// Footprints (4 bytes regular, count*stride for arrays) are structural and
// never altered; if the tail does not fit under blockSize the stale result is
// caught by RegistersFit. The input is never mutated.
func RepackRegistersForward(regs []regmap.Register, from int, blockSize uint64) []regmap.Register {
	spans := registerSpans(regs)
	return applyRegisterSpans(regs, repackForward(spans, from, int64(blockSize)))
}

// RepackRegistersBackward is the descending variant, anchoring at the
// successor's offset (or blockSize past the end for the last element) and
// clamping the lowest register at offset 0.
func RepackRegistersBackward(regs []regmap.Register, from int, blockSize uint64) []regmap.Register {
	spans := registerSpans(regs)
	return applyRegisterSpans(regs, repackBackward(spans, from, int64(blockSize)))
}

func registerSpans(regs []regmap.Register) []span {
	spans := make([]span, len(regs))
	for i, r := range regs {
		spans[i] = span{start: int64(r.Offset()), width: int64(r.Footprint())}
	}
	return spans
}

func applyRegisterSpans(regs []regmap.Register, spans []span) []regmap.Register {
	out := make([]regmap.Register, len(regs))
	for i, r := range regs {
		if s := spans[i]; s.start >= 0 {
			out[i] = r.WithOffset(uint64(s.start))
		} else {
			out[i] = r
		}
	}
	return out
}

// RegistersFit reports whether every register footprint lies inside
// [0, blockSize).
func RegistersFit(regs []regmap.Register, blockSize uint64) bool {
	for _, r := range regs {
		if r.Offset()+r.Footprint() > blockSize {
			return false
		}
	}
	return true
}

// =============================================================================
// Address Blocks
// =============================================================================

// RepackBlocksForward recomputes base addresses for blocks[from:] so that
// each block starts immediately after its predecessor's span ends. The final
// block is clamped at the address-space limit: when the clamp shrinks it, the
// block's explicit Size is rewritten so its span stays internally consistent.
// The input is never mutated.
func RepackBlocksForward(blocks []regmap.AddressBlock, from int, limit uint64) []regmap.AddressBlock {
	spans := blockSpans(blocks)
	return applyBlockSpans(blocks, repackForward(spans, from, int64(limit)))
}

// RepackBlocksBackward is the descending variant, anchoring at the
// successor's base (or the limit for the last block) and clamping the lowest
// block at address 0.
func RepackBlocksBackward(blocks []regmap.AddressBlock, from int, limit uint64) []regmap.AddressBlock {
	spans := blockSpans(blocks)
	return applyBlockSpans(blocks, repackBackward(spans, from, int64(limit)))
}

func blockSpans(blocks []regmap.AddressBlock) []span {
	spans := make([]span, len(blocks))
	for i, b := range blocks {
		spans[i] = span{start: int64(b.BaseAddress), width: int64(b.Span())}
	}
	return spans
}

func applyBlockSpans(blocks []regmap.AddressBlock, spans []span) []regmap.AddressBlock {
	out := make([]regmap.AddressBlock, len(blocks))
	copy(out, blocks)
	for i, s := range spans {
		if s.start < 0 || s.width < 1 {
			continue
		}
		out[i].BaseAddress = uint64(s.start)
		if uint64(s.width) != blocks[i].Span() {
			out[i].Size = uint64(s.width)
		}
	}
	return out
}

// BlocksFit reports whether every block span lies inside [0, limit).
func BlocksFit(blocks []regmap.AddressBlock, limit uint64) bool {
	return validSpans(blockSpans(blocks), int64(limit))
}
