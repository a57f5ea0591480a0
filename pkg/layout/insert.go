package layout

import (
	"sort"

	"github.com/bleviet/regcraft/pkg/bitrange"
	"github.com/bleviet/regcraft/pkg/errors"
	"github.com/bleviet/regcraft/pkg/regmap"
)

// Insertion is all-or-nothing: each InsertXxx function either returns a new,
// re-sorted collection plus the index of the inserted element, or the
// original collection untouched, -1, and a structured error. Errors carry
// human-readable messages meant for inline display.

// =============================================================================
// Bit Fields
// =============================================================================

// InsertFieldAfter inserts a new default 1-bit field immediately above the
// selected field, repacking the tail upward to absorb the shift. A negative
// selected index means the last field. registerSize bounds the register.
func InsertFieldAfter(fields []regmap.BitField, selected int, registerSize uint) ([]regmap.BitField, int, error) {
	if len(fields) == 0 {
		return []regmap.BitField{newField(NextName(nil, FieldPrefix), 0)}, 0, nil
	}
	sel := resolveIndex(selected, len(fields))

	candidate := int64(fields[sel].Hi()) + 1
	if candidate >= int64(registerSize) {
		// The message spells the full [hi:lo] form even for a single bit;
		// inline errors always show both edges.
		return fields, -1, errors.New(errors.ErrCodeOutOfBounds,
			"Cannot insert after: would place field at [%d:%d], outside register bounds",
			candidate, candidate)
	}
	if owner := FieldOwning(fields, uint(candidate)); owner >= 0 {
		return fields, -1, errors.New(errors.ErrCodeCollision,
			"Cannot insert after: bit %d is already occupied by %q",
			candidate, fields[owner].Name)
	}

	name := NextName(fieldNames(fields), FieldPrefix)
	next := spliceFields(fields, sel+1, newField(name, uint(candidate)))
	next = RepackFieldsForward(next, sel+2, registerSize)
	sortFields(next)

	if !FieldsFit(next, registerSize) {
		return fields, -1, errors.New(errors.ErrCodeRepackOverflow,
			"Cannot insert after: not enough space for repacking")
	}
	return next, fieldIndexByName(next, name), nil
}

// InsertFieldBefore inserts a new default 1-bit field immediately below the
// selected field, repacking the head downward.
func InsertFieldBefore(fields []regmap.BitField, selected int, registerSize uint) ([]regmap.BitField, int, error) {
	if len(fields) == 0 {
		return []regmap.BitField{newField(NextName(nil, FieldPrefix), 0)}, 0, nil
	}
	sel := resolveIndex(selected, len(fields))

	candidate := int64(fields[sel].Lo()) - 1
	if candidate < 0 {
		return fields, -1, errors.New(errors.ErrCodeOutOfBounds,
			"Cannot insert before: would place field at a negative offset, outside register bounds")
	}
	if owner := FieldOwning(fields, uint(candidate)); owner >= 0 {
		return fields, -1, errors.New(errors.ErrCodeCollision,
			"Cannot insert before: bit %d is already occupied by %q",
			candidate, fields[owner].Name)
	}

	name := NextName(fieldNames(fields), FieldPrefix)
	next := spliceFields(fields, sel, newField(name, uint(candidate)))
	next = RepackFieldsBackward(next, sel-1, registerSize)
	sortFields(next)

	if !FieldsFit(next, registerSize) {
		return fields, -1, errors.New(errors.ErrCodeRepackOverflow,
			"Cannot insert before: not enough space for repacking")
	}
	return next, fieldIndexByName(next, name), nil
}

func newField(name string, offset uint) regmap.BitField {
	f := regmap.BitField{Name: name, BitOffset: offset, BitWidth: 1}
	f.Bits = f.Range()
	return f
}

// FieldOwning returns the index of the field whose range contains bit, or -1.
// Fields without a usable position never own a bit.
func FieldOwning(fields []regmap.BitField, bit uint) int {
	for i, f := range fields {
		if f.BitWidth == 0 {
			continue
		}
		if bit >= f.Lo() && bit <= f.Hi() {
			return i
		}
	}
	return -1
}

func fieldNames(fields []regmap.BitField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func fieldIndexByName(fields []regmap.BitField, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func spliceFields(fields []regmap.BitField, at int, f regmap.BitField) []regmap.BitField {
	out := make([]regmap.BitField, 0, len(fields)+1)
	out = append(out, fields[:at]...)
	out = append(out, f)
	out = append(out, fields[at:]...)
	return out
}

func sortFields(fields []regmap.BitField) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].BitOffset < fields[j].BitOffset
	})
}

// =============================================================================
// Registers
// =============================================================================

// InsertRegisterAfter inserts a new default register immediately after the
// selected register's footprint, repacking the tail upward. blockSize bounds
// the owning address block.
func InsertRegisterAfter(regs []regmap.Register, selected int, blockSize uint64) ([]regmap.Register, int, error) {
	if len(regs) == 0 {
		return []regmap.Register{newRegister(NextName(nil, RegisterPrefix), 0)}, 0, nil
	}
	sel := resolveIndex(selected, len(regs))

	candidate := int64(regs[sel].Offset() + regs[sel].Footprint())
	if candidate+regmap.RegularFootprint > int64(blockSize) {
		return regs, -1, errors.New(errors.ErrCodeOutOfBounds,
			"Cannot insert after: would place register at %s, outside block bounds",
			bitrange.FormatHex(candidate))
	}
	if owner := registerOwning(regs, uint64(candidate), regmap.RegularFootprint); owner >= 0 {
		return regs, -1, errors.New(errors.ErrCodeCollision,
			"Cannot insert after: address %s is already occupied by %q",
			bitrange.FormatHex(candidate), regs[owner].RegisterName())
	}

	name := NextName(registerNames(regs), RegisterPrefix)
	next := spliceRegisters(regs, sel+1, newRegister(name, uint64(candidate)))
	next = RepackRegistersForward(next, sel+2, blockSize)
	sortRegisters(next)

	if !RegistersFit(next, blockSize) {
		return regs, -1, errors.New(errors.ErrCodeRepackOverflow,
			"Cannot insert after: not enough space for repacking")
	}
	return next, registerIndexByName(next, name), nil
}

// InsertRegisterBefore inserts a new default register immediately below the
// selected register, repacking the head downward.
func InsertRegisterBefore(regs []regmap.Register, selected int, blockSize uint64) ([]regmap.Register, int, error) {
	if len(regs) == 0 {
		return []regmap.Register{newRegister(NextName(nil, RegisterPrefix), 0)}, 0, nil
	}
	sel := resolveIndex(selected, len(regs))

	candidate := int64(regs[sel].Offset()) - regmap.RegularFootprint
	if candidate < 0 {
		return regs, -1, errors.New(errors.ErrCodeOutOfBounds,
			"Cannot insert before: would place register at a negative offset, outside block bounds")
	}
	if owner := registerOwning(regs, uint64(candidate), regmap.RegularFootprint); owner >= 0 {
		return regs, -1, errors.New(errors.ErrCodeCollision,
			"Cannot insert before: address %s is already occupied by %q",
			bitrange.FormatHex(candidate), regs[owner].RegisterName())
	}

	name := NextName(registerNames(regs), RegisterPrefix)
	next := spliceRegisters(regs, sel, newRegister(name, uint64(candidate)))
	next = RepackRegistersBackward(next, sel-1, blockSize)
	sortRegisters(next)

	if !RegistersFit(next, blockSize) {
		return regs, -1, errors.New(errors.ErrCodeRepackOverflow,
			"Cannot insert before: not enough space for repacking")
	}
	return next, registerIndexByName(next, name), nil
}

func newRegister(name string, offset uint64) regmap.Register {
	return regmap.RegularRegister{Name: name, AddressOffset: offset}
}

// registerOwning returns the index of the register whose span overlaps
// [addr, addr+width), or -1.
func registerOwning(regs []regmap.Register, addr, width uint64) int {
	for i, r := range regs {
		if addr < r.Offset()+r.Footprint() && r.Offset() < addr+width {
			return i
		}
	}
	return -1
}

func registerNames(regs []regmap.Register) []string {
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.RegisterName()
	}
	return names
}

func registerIndexByName(regs []regmap.Register, name string) int {
	for i, r := range regs {
		if r.RegisterName() == name {
			return i
		}
	}
	return -1
}

func spliceRegisters(regs []regmap.Register, at int, r regmap.Register) []regmap.Register {
	out := make([]regmap.Register, 0, len(regs)+1)
	out = append(out, regs[:at]...)
	out = append(out, r)
	out = append(out, regs[at:]...)
	return out
}

func sortRegisters(regs []regmap.Register) {
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].Offset() < regs[j].Offset()
	})
}

// =============================================================================
// Address Blocks
// =============================================================================

// InsertBlockAfter inserts a new default block immediately after the selected
// block's span, repacking the tail upward. limit bounds the address space.
func InsertBlockAfter(blocks []regmap.AddressBlock, selected int, limit uint64) ([]regmap.AddressBlock, int, error) {
	if len(blocks) == 0 {
		return []regmap.AddressBlock{newBlock(NextName(nil, BlockPrefix), 0)}, 0, nil
	}
	sel := resolveIndex(selected, len(blocks))

	candidate := int64(blocks[sel].End())
	if candidate+regmap.RegularFootprint > int64(limit) {
		return blocks, -1, errors.New(errors.ErrCodeOutOfBounds,
			"Cannot insert after: would place block at %s, outside the address space",
			bitrange.FormatHex(candidate))
	}
	if owner := blockOwning(blocks, uint64(candidate), regmap.RegularFootprint); owner >= 0 {
		return blocks, -1, errors.New(errors.ErrCodeCollision,
			"Cannot insert after: address %s is already occupied by %q",
			bitrange.FormatHex(candidate), blocks[owner].Name)
	}

	name := NextName(blockNames(blocks), BlockPrefix)
	next := spliceBlocks(blocks, sel+1, newBlock(name, uint64(candidate)))
	next = RepackBlocksForward(next, sel+2, limit)
	sortBlocks(next)

	if !BlocksFit(next, limit) {
		return blocks, -1, errors.New(errors.ErrCodeRepackOverflow,
			"Cannot insert after: not enough space for repacking")
	}
	return next, blockIndexByName(next, name), nil
}

// InsertBlockBefore inserts a new default block immediately below the
// selected block. When the block preceding the insertion point would overlap
// the candidate position, it is shrunk to end exactly where the new block
// begins; everything below then repacks downward.
func InsertBlockBefore(blocks []regmap.AddressBlock, selected int, limit uint64) ([]regmap.AddressBlock, int, error) {
	if len(blocks) == 0 {
		return []regmap.AddressBlock{newBlock(NextName(nil, BlockPrefix), 0)}, 0, nil
	}
	sel := resolveIndex(selected, len(blocks))

	candidate := int64(blocks[sel].BaseAddress) - regmap.RegularFootprint
	if candidate < 0 {
		return blocks, -1, errors.New(errors.ErrCodeOutOfBounds,
			"Cannot insert before: would place block at a negative address, outside the address space")
	}

	adjusted := make([]regmap.AddressBlock, len(blocks))
	copy(adjusted, blocks)
	if sel > 0 {
		prev := adjusted[sel-1]
		if int64(prev.End()) > candidate {
			if int64(prev.BaseAddress) >= candidate {
				return blocks, -1, errors.New(errors.ErrCodeCollision,
					"Cannot insert before: address %s is already occupied by %q",
					bitrange.FormatHex(candidate), prev.Name)
			}
			prev.Size = uint64(candidate) - prev.BaseAddress
			adjusted[sel-1] = prev
		}
	}
	if owner := blockOwning(adjusted, uint64(candidate), regmap.RegularFootprint); owner >= 0 {
		return blocks, -1, errors.New(errors.ErrCodeCollision,
			"Cannot insert before: address %s is already occupied by %q",
			bitrange.FormatHex(candidate), adjusted[owner].Name)
	}

	name := NextName(blockNames(blocks), BlockPrefix)
	next := spliceBlocks(adjusted, sel, newBlock(name, uint64(candidate)))
	next = RepackBlocksBackward(next, sel-1, limit)
	sortBlocks(next)

	if !BlocksFit(next, limit) {
		return blocks, -1, errors.New(errors.ErrCodeRepackOverflow,
			"Cannot insert before: not enough space for repacking")
	}
	return next, blockIndexByName(next, name), nil
}

func newBlock(name string, base uint64) regmap.AddressBlock {
	return regmap.AddressBlock{Name: name, BaseAddress: base, Usage: "register"}
}

func blockOwning(blocks []regmap.AddressBlock, addr, width uint64) int {
	for i, b := range blocks {
		if addr < b.End() && b.BaseAddress < addr+width {
			return i
		}
	}
	return -1
}

func blockNames(blocks []regmap.AddressBlock) []string {
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = b.Name
	}
	return names
}

func blockIndexByName(blocks []regmap.AddressBlock, name string) int {
	for i, b := range blocks {
		if b.Name == name {
			return i
		}
	}
	return -1
}

func spliceBlocks(blocks []regmap.AddressBlock, at int, b regmap.AddressBlock) []regmap.AddressBlock {
	out := make([]regmap.AddressBlock, 0, len(blocks)+1)
	out = append(out, blocks[:at]...)
	out = append(out, b)
	out = append(out, blocks[at:]...)
	return out
}

func sortBlocks(blocks []regmap.AddressBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].BaseAddress < blocks[j].BaseAddress
	})
}

// resolveIndex clamps a selection index into [0, n): negative values select
// the last element, matching the UI convention of "no explicit selection".
func resolveIndex(i, n int) int {
	if i < 0 || i >= n {
		return n - 1
	}
	return i
}
