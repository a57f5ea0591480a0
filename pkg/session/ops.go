package session

import (
	"sort"

	"github.com/bleviet/regcraft/pkg/document"
	"github.com/bleviet/regcraft/pkg/errors"
	"github.com/bleviet/regcraft/pkg/gesture"
	"github.com/bleviet/regcraft/pkg/layout"
	"github.com/bleviet/regcraft/pkg/regmap"
)

// =============================================================================
// Lookup
// =============================================================================

// Fields returns the field list and register size for one register, addressed
// by block and register index in sorted document order.
func (s *Session) Fields(block, reg int) ([]regmap.BitField, uint, error) {
	_, _, r, err := s.locateRegister(block, reg)
	if err != nil {
		return nil, 0, err
	}
	return r.Fields, r.Size(), nil
}

// Registers returns one block's register list.
func (s *Session) Registers(block int) ([]regmap.Register, error) {
	_, b, err := s.locateBlock(block)
	if err != nil {
		return nil, err
	}
	return b.Registers, nil
}

// Blocks returns the map's address blocks.
func (s *Session) Blocks() ([]regmap.AddressBlock, error) {
	m, err := s.doc.Map()
	if err != nil {
		return nil, err
	}
	return m.Blocks, nil
}

func (s *Session) locateBlock(block int) (*regmap.MemoryMap, *regmap.AddressBlock, error) {
	m, err := s.doc.Map()
	if err != nil {
		return nil, nil, err
	}
	if block < 0 || block >= len(m.Blocks) {
		return nil, nil, errors.New(errors.ErrCodeNotFound,
			"no address block at index %d", block)
	}
	return m, &m.Blocks[block], nil
}

// registerBound returns the byte capacity registers may occupy in a block: an
// explicit block size when declared, otherwise the remaining address space
// (derived-size blocks grow with their children).
func (s *Session) registerBound(b *regmap.AddressBlock) uint64 {
	if b.Size > 0 {
		return b.Size
	}
	if b.BaseAddress >= s.limit {
		return 0
	}
	return s.limit - b.BaseAddress
}

// locateRegister resolves block/register indices to a regular register.
// Register arrays are templates, not field holders, so they are rejected.
func (s *Session) locateRegister(block, reg int) (*regmap.MemoryMap, *regmap.AddressBlock, *regmap.RegularRegister, error) {
	m, b, err := s.locateBlock(block)
	if err != nil {
		return nil, nil, nil, err
	}
	if reg < 0 || reg >= len(b.Registers) {
		return nil, nil, nil, errors.New(errors.ErrCodeNotFound,
			"no register at index %d in block %q", reg, b.Name)
	}
	switch r := b.Registers[reg].(type) {
	case regmap.RegularRegister:
		return m, b, &r, nil
	case regmap.RegisterArray:
		return nil, nil, nil, errors.New(errors.ErrCodeInvalidDocument,
			"register %q is an array and has no editable fields", r.Name)
	}
	return nil, nil, nil, errors.New(errors.ErrCodeInternal,
		"unknown register kind at index %d", reg)
}

// =============================================================================
// Structural inserts
// =============================================================================

// InsertField inserts a default 1-bit field next to the selected field and
// returns the new field's index. The edit is all-or-nothing: on error the
// document is unchanged.
func (s *Session) InsertField(block, reg, selected int, place Placement) (int, error) {
	_, _, r, err := s.locateRegister(block, reg)
	if err != nil {
		return -1, err
	}

	var next []regmap.BitField
	var idx int
	if place == Before {
		next, idx, err = layout.InsertFieldBefore(r.Fields, selected, r.Size())
	} else {
		next, idx, err = layout.InsertFieldAfter(r.Fields, selected, r.Size())
	}
	if err != nil {
		return -1, err
	}
	if err := s.writeFields(block, reg, next); err != nil {
		return -1, err
	}
	return idx, nil
}

// InsertRegister inserts a default register next to the selected register.
func (s *Session) InsertRegister(block, selected int, place Placement) (int, error) {
	_, b, err := s.locateBlock(block)
	if err != nil {
		return -1, err
	}

	var next []regmap.Register
	var idx int
	if place == Before {
		next, idx, err = layout.InsertRegisterBefore(b.Registers, selected, s.registerBound(b))
	} else {
		next, idx, err = layout.InsertRegisterAfter(b.Registers, selected, s.registerBound(b))
	}
	if err != nil {
		return -1, err
	}
	if err := s.writeRegisters(block, next); err != nil {
		return -1, err
	}
	return idx, nil
}

// InsertBlock inserts a default address block next to the selected block.
func (s *Session) InsertBlock(selected int, place Placement) (int, error) {
	m, err := s.doc.Map()
	if err != nil {
		return -1, err
	}

	var next []regmap.AddressBlock
	var idx int
	if place == Before {
		next, idx, err = layout.InsertBlockBefore(m.Blocks, selected, s.limit)
	} else {
		next, idx, err = layout.InsertBlockAfter(m.Blocks, selected, s.limit)
	}
	if err != nil {
		return -1, err
	}
	m.Blocks = next
	if err := s.writeMap(m, "insert block"); err != nil {
		return -1, err
	}
	return idx, nil
}

// =============================================================================
// Deletion
// =============================================================================

// DeleteField removes one field. Remaining fields keep their positions; the
// freed bits become a gap.
func (s *Session) DeleteField(block, reg, field int) error {
	_, _, r, err := s.locateRegister(block, reg)
	if err != nil {
		return err
	}
	if field < 0 || field >= len(r.Fields) {
		return errors.New(errors.ErrCodeNotFound,
			"no field at index %d in register %q", field, r.Name)
	}
	next := append(append([]regmap.BitField{}, r.Fields[:field]...), r.Fields[field+1:]...)
	return s.writeFields(block, reg, next)
}

// DeleteRegister removes one register without repacking its siblings.
func (s *Session) DeleteRegister(block, reg int) error {
	_, b, err := s.locateBlock(block)
	if err != nil {
		return err
	}
	if reg < 0 || reg >= len(b.Registers) {
		return errors.New(errors.ErrCodeNotFound,
			"no register at index %d in block %q", reg, b.Name)
	}
	next := append(append([]regmap.Register{}, b.Registers[:reg]...), b.Registers[reg+1:]...)
	return s.writeRegisters(block, next)
}

// DeleteBlock removes one address block without repacking its siblings.
func (s *Session) DeleteBlock(block int) error {
	m, _, err := s.locateBlock(block)
	if err != nil {
		return err
	}
	m.Blocks = append(append([]regmap.AddressBlock{}, m.Blocks[:block]...), m.Blocks[block+1:]...)
	return s.writeMap(m, "delete block")
}

// =============================================================================
// Gesture commits
// =============================================================================

// ResizeField re-positions one field to span [hi:lo]. Used by the shift-drag
// resize commit; validates bounds and collisions against the other fields.
func (s *Session) ResizeField(block, reg, field int, hi, lo uint) error {
	_, _, r, err := s.locateRegister(block, reg)
	if err != nil {
		return err
	}
	if field < 0 || field >= len(r.Fields) {
		return errors.New(errors.ErrCodeNotFound,
			"no field at index %d in register %q", field, r.Name)
	}
	if hi < lo || hi >= r.Size() {
		return errors.New(errors.ErrCodeInvalidRange,
			"field range [%d:%d] is outside register bounds", hi, lo)
	}

	next := make([]regmap.BitField, len(r.Fields))
	copy(next, r.Fields)
	next[field].BitOffset = lo
	next[field].BitWidth = hi - lo + 1
	next[field].Bits = next[field].Range()

	if i := overlappingField(next, field); i >= 0 {
		return errors.New(errors.ErrCodeCollision,
			"field range [%d:%d] overlaps %q", hi, lo, next[i].Name)
	}
	return s.writeFields(block, reg, next)
}

// CreateField adds a new auto-named field spanning [hi:lo] and returns its
// index. Used by the shift-drag create commit.
func (s *Session) CreateField(block, reg int, hi, lo uint) (int, error) {
	_, _, r, err := s.locateRegister(block, reg)
	if err != nil {
		return -1, err
	}
	if hi < lo || hi >= r.Size() {
		return -1, errors.New(errors.ErrCodeInvalidRange,
			"field range [%d:%d] is outside register bounds", hi, lo)
	}

	name := layout.NextName(fieldNames(r.Fields), layout.FieldPrefix)
	f := regmap.BitField{Name: name, BitOffset: lo, BitWidth: hi - lo + 1}
	f.Bits = f.Range()

	next := append(append([]regmap.BitField{}, r.Fields...), f)
	if i := overlappingField(next, len(next)-1); i >= 0 {
		return -1, errors.New(errors.ErrCodeCollision,
			"field range [%d:%d] overlaps %q", hi, lo, next[i].Name)
	}
	sortByOffset(next)
	if err := s.writeFields(block, reg, next); err != nil {
		return -1, err
	}
	for i, g := range next {
		if g.Name == name {
			return i, nil
		}
	}
	return -1, nil
}

// ApplyFieldRanges commits a whole-register batch of field positions, as
// produced by the ctrl-drag reorder commit. All updates land atomically or
// none do.
func (s *Session) ApplyFieldRanges(block, reg int, updates []gesture.FieldRange) error {
	_, _, r, err := s.locateRegister(block, reg)
	if err != nil {
		return err
	}

	next := make([]regmap.BitField, len(r.Fields))
	copy(next, r.Fields)
	for _, u := range updates {
		if u.FieldIndex < 0 || u.FieldIndex >= len(next) {
			return errors.New(errors.ErrCodeNotFound,
				"no field at index %d in register %q", u.FieldIndex, r.Name)
		}
		if u.Hi < u.Lo || u.Hi >= r.Size() {
			return errors.New(errors.ErrCodeInvalidRange,
				"field range [%d:%d] is outside register bounds", u.Hi, u.Lo)
		}
		next[u.FieldIndex].BitOffset = u.Lo
		next[u.FieldIndex].BitWidth = u.Hi - u.Lo + 1
		next[u.FieldIndex].Bits = next[u.FieldIndex].Range()
	}
	for i := range next {
		if j := overlappingField(next, i); j >= 0 && j > i {
			return errors.New(errors.ErrCodeCollision,
				"fields %q and %q overlap after reorder", next[i].Name, next[j].Name)
		}
	}
	sortByOffset(next)
	return s.writeFields(block, reg, next)
}

// =============================================================================
// Write-back
// =============================================================================

// writeFields re-encodes one register's field list into the document tree and
// commits. The whole list is rewritten in sorted order so tree indices stay
// aligned with the typed model.
func (s *Session) writeFields(block, reg int, fields []regmap.BitField) error {
	nodes := make([]any, len(fields))
	for i, f := range fields {
		nodes[i] = regmap.FieldToTree(f)
	}
	path := document.Path{"address_blocks", block, "registers", reg, "fields"}
	if err := s.doc.Apply(path, nodes); err != nil {
		return err
	}
	return s.commit("fields")
}

func (s *Session) writeRegisters(block int, regs []regmap.Register) error {
	nodes := make([]any, len(regs))
	for i, r := range regs {
		nodes[i] = regmap.RegisterToTree(r)
	}
	path := document.Path{"address_blocks", block, "registers"}
	if err := s.doc.Apply(path, nodes); err != nil {
		return err
	}
	return s.commit("registers")
}

func (s *Session) writeMap(m *regmap.MemoryMap, op string) error {
	if err := s.doc.SetMap(m); err != nil {
		return err
	}
	return s.commit(op)
}

// =============================================================================
// Helpers
// =============================================================================

// overlappingField returns the index of a field overlapping fields[i], or -1.
func overlappingField(fields []regmap.BitField, i int) int {
	for j, f := range fields {
		if j == i || f.BitWidth == 0 || fields[i].BitWidth == 0 {
			continue
		}
		if f.Overlaps(fields[i]) {
			return j
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

func sortByOffset(fields []regmap.BitField) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].BitOffset < fields[j].BitOffset
	})
}
