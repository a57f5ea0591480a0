package layout

import (
	"testing"

	"github.com/bleviet/regcraft/pkg/regmap"
)

func fieldList(positions ...[2]uint) []regmap.BitField {
	fields := make([]regmap.BitField, len(positions))
	for i, p := range positions {
		fields[i] = regmap.BitField{Name: "f", BitOffset: p[0], BitWidth: p[1]}
		fields[i].Bits = fields[i].Range()
	}
	return fields
}

func TestRepackFieldsForward(t *testing.T) {
	// Ascending list with gaps; repacking from index 1 pulls the tail down
	// so each field starts one bit above its predecessor's high edge.
	fields := fieldList([2]uint{0, 1}, [2]uint{7, 2}, [2]uint{20, 3})

	out := RepackFieldsForward(fields, 1, 32)

	want := [][2]uint{{0, 1}, {1, 2}, {3, 3}}
	for i, w := range want {
		if out[i].BitOffset != w[0] || out[i].BitWidth != w[1] {
			t.Errorf("field %d = offset %d width %d, want offset %d width %d",
				i, out[i].BitOffset, out[i].BitWidth, w[0], w[1])
		}
	}
	// Regenerated range strings track the new positions.
	if out[2].Bits != "[5:3]" {
		t.Errorf("bits = %q, want [5:3]", out[2].Bits)
	}
	// Input untouched.
	if fields[1].BitOffset != 7 {
		t.Error("input slice was mutated")
	}
}

func TestRepackFieldsForwardClampsLast(t *testing.T) {
	fields := fieldList([2]uint{0, 4}, [2]uint{4, 10})

	out := RepackFieldsForward(fields, 1, 8)

	if out[1].BitOffset != 4 || out[1].BitWidth != 4 {
		t.Errorf("last field = offset %d width %d, want clamped to offset 4 width 4",
			out[1].BitOffset, out[1].BitWidth)
	}
	if !FieldsFit(out, 8) {
		t.Error("clamped layout should fit")
	}
}

func TestRepackFieldsBackward(t *testing.T) {
	fields := fieldList([2]uint{3, 2}, [2]uint{10, 2}, [2]uint{20, 4})

	out := RepackFieldsBackward(fields, 1, 32)

	// Index 1 ends just below index 2's start; index 0 just below index 1.
	want := [][2]uint{{16, 2}, {18, 2}, {20, 4}}
	for i, w := range want {
		if out[i].BitOffset != w[0] || out[i].BitWidth != w[1] {
			t.Errorf("field %d = offset %d width %d, want offset %d width %d",
				i, out[i].BitOffset, out[i].BitWidth, w[0], w[1])
		}
	}
}

func TestRepackFieldsBackwardClampsFirst(t *testing.T) {
	fields := fieldList([2]uint{0, 6}, [2]uint{6, 2})

	out := RepackFieldsBackward(fields, 1, 4)

	// Index 1 anchors at the top ([3:2]); index 0 is pushed below zero and
	// shrinks to the two remaining bits.
	if out[1].BitOffset != 2 || out[1].BitWidth != 2 {
		t.Errorf("field 1 = offset %d width %d, want offset 2 width 2", out[1].BitOffset, out[1].BitWidth)
	}
	if out[0].BitOffset != 0 || out[0].BitWidth != 2 {
		t.Errorf("field 0 = offset %d width %d, want offset 0 width 2", out[0].BitOffset, out[0].BitWidth)
	}
}

func TestRepackFieldsTopDown(t *testing.T) {
	// MSB-descending list, as the bit grid keeps it: index 0 is topmost.
	fields := fieldList([2]uint{28, 4}, [2]uint{20, 4}, [2]uint{0, 2})

	out := RepackFieldsTopDown(fields, 1, 32)

	// Each element ends immediately below its predecessor.
	want := [][2]uint{{28, 4}, {24, 4}, {22, 2}}
	for i, w := range want {
		if out[i].BitOffset != w[0] || out[i].BitWidth != w[1] {
			t.Errorf("field %d = offset %d width %d, want offset %d width %d",
				i, out[i].BitOffset, out[i].BitWidth, w[0], w[1])
		}
	}
}

func TestRepackFieldsTopDownBytesWide(t *testing.T) {
	// Three byte-wide fields listed MSB-descending with stale lower
	// positions; packing from index 1 butts each against its predecessor.
	fields := fieldList([2]uint{24, 8}, [2]uint{8, 8}, [2]uint{0, 8})

	out := RepackFieldsTopDown(fields, 1, 32)

	want := [][2]uint{{24, 8}, {16, 8}, {8, 8}}
	for i, w := range want {
		if out[i].BitOffset != w[0] || out[i].BitWidth != w[1] {
			t.Errorf("field %d = offset %d width %d, want offset %d width %d",
				i, out[i].BitOffset, out[i].BitWidth, w[0], w[1])
		}
	}
}

func TestRepackFieldsForwardResolvesOverlap(t *testing.T) {
	// Deliberately overlapping fixture: every field claims [7:0]. Repacking
	// from index 1 stacks the tail above the anchor.
	fields := fieldList([2]uint{0, 8}, [2]uint{0, 8}, [2]uint{0, 8})

	out := RepackFieldsForward(fields, 1, 32)

	want := [][2]uint{{0, 8}, {8, 8}, {16, 8}}
	for i, w := range want {
		if out[i].BitOffset != w[0] || out[i].BitWidth != w[1] {
			t.Errorf("field %d = offset %d width %d, want offset %d width %d",
				i, out[i].BitOffset, out[i].BitWidth, w[0], w[1])
		}
	}
	if out[1].Bits != "[15:8]" || out[2].Bits != "[23:16]" {
		t.Errorf("bits = %q, %q, want [15:8], [23:16]", out[1].Bits, out[2].Bits)
	}
}

func TestRepackPreservesWidthsAndDisjointness(t *testing.T) {
	fields := fieldList([2]uint{2, 3}, [2]uint{5, 1}, [2]uint{9, 4}, [2]uint{17, 2})

	out := RepackFieldsForward(fields, 0, 32)

	for i := range fields {
		if out[i].BitWidth != fields[i].BitWidth {
			t.Errorf("field %d width changed: %d -> %d", i, fields[i].BitWidth, out[i].BitWidth)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[i].Overlaps(out[j]) {
				t.Errorf("fields %d and %d overlap after repack", i, j)
			}
		}
	}
}

func TestRepackRegistersForward(t *testing.T) {
	regs := []regmap.Register{
		regmap.RegularRegister{Name: "a", AddressOffset: 0},
		regmap.RegisterArray{Name: "b", AddressOffset: 16, Count: 2, Stride: 8},
		regmap.RegularRegister{Name: "c", AddressOffset: 64},
	}

	out := RepackRegistersForward(regs, 1, 256)

	if out[1].Offset() != 4 {
		t.Errorf("array offset = %d, want 4", out[1].Offset())
	}
	if out[2].Offset() != 20 {
		t.Errorf("register c offset = %d, want 20 (after the array footprint)", out[2].Offset())
	}
	// Footprints are structural and never shrink.
	if out[1].Footprint() != 16 {
		t.Errorf("array footprint changed to %d", out[1].Footprint())
	}
}

func TestRegistersFitRejectsOverflow(t *testing.T) {
	regs := []regmap.Register{
		regmap.RegularRegister{Name: "a", AddressOffset: 0},
		regmap.RegularRegister{Name: "b", AddressOffset: 6},
	}
	if RegistersFit(regs, 8) {
		t.Error("register past the block end should not fit")
	}
	if !RegistersFit(regs[:1], 8) {
		t.Error("register inside the block should fit")
	}
}

func TestRepackBlocksForwardRewritesShrunkSize(t *testing.T) {
	blocks := []regmap.AddressBlock{
		{Name: "a", BaseAddress: 0, Size: 16},
		{Name: "b", BaseAddress: 64, Size: 32},
	}

	out := RepackBlocksForward(blocks, 1, 32)

	if out[1].BaseAddress != 16 {
		t.Errorf("block b base = %d, want 16", out[1].BaseAddress)
	}
	// Clamped at the limit: the explicit size is rewritten to match.
	if out[1].Size != 16 {
		t.Errorf("block b size = %d, want rewritten 16", out[1].Size)
	}
	if !BlocksFit(out, 32) {
		t.Error("clamped blocks should fit")
	}
}

func TestRepackBlocksBackward(t *testing.T) {
	blocks := []regmap.AddressBlock{
		{Name: "a", BaseAddress: 0, Size: 8},
		{Name: "b", BaseAddress: 8, Size: 8},
	}

	out := RepackBlocksBackward(blocks, 1, 64)

	if out[1].BaseAddress != 56 {
		t.Errorf("block b base = %d, want anchored at 56", out[1].BaseAddress)
	}
	if out[0].BaseAddress != 48 {
		t.Errorf("block a base = %d, want 48", out[0].BaseAddress)
	}
}
