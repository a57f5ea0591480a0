package regmap

import (
	"fmt"

	"github.com/bleviet/regcraft/pkg/errors"
)

// Validate checks every layout invariant in the map and returns one error per
// violation. A nil slice means the document is consistent.
//
// Checks, leaf-first:
//   - field names, access modes, block usages are well formed
//   - field ranges lie inside [0, register size) and are pairwise disjoint
//   - register byte spans within a block are pairwise disjoint
//   - block address spans are pairwise disjoint
func Validate(m *MemoryMap) []error {
	var errs []error

	for bi, block := range m.Blocks {
		if err := errors.ValidateEntityName(block.Name); err != nil {
			errs = append(errs, wrapAt(err, "blocks[%d]", bi))
		}
		if err := errors.ValidateUsage(block.Usage); err != nil {
			errs = append(errs, wrapAt(err, "blocks[%d]", bi))
		}
		errs = append(errs, validateBlock(block, bi)...)
	}

	// Block spans pairwise disjoint in the map.
	for i := 0; i < len(m.Blocks); i++ {
		for j := i + 1; j < len(m.Blocks); j++ {
			a, b := m.Blocks[i], m.Blocks[j]
			if a.BaseAddress < b.End() && b.BaseAddress < a.End() {
				errs = append(errs, errors.New(errors.ErrCodeCollision,
					"blocks %q and %q overlap", a.Name, b.Name))
			}
		}
	}

	return errs
}

func validateBlock(block AddressBlock, bi int) []error {
	var errs []error

	for ri, reg := range block.Registers {
		if err := errors.ValidateEntityName(reg.RegisterName()); err != nil {
			errs = append(errs, wrapAt(err, "blocks[%d].registers[%d]", bi, ri))
		}
		switch r := reg.(type) {
		case RegularRegister:
			if err := errors.ValidateAccess(r.Access); err != nil {
				errs = append(errs, wrapAt(err, "blocks[%d].registers[%d]", bi, ri))
			}
			errs = append(errs, validateFields(r, bi, ri)...)
		case RegisterArray:
			if r.Count == 0 {
				errs = append(errs, errors.New(errors.ErrCodeInvalidDocument,
					"register array %q has count 0", r.Name))
			}
			if r.Stride == 0 {
				errs = append(errs, errors.New(errors.ErrCodeInvalidDocument,
					"register array %q has stride 0", r.Name))
			}
		}
	}

	// Register byte spans pairwise disjoint in the block.
	for i := 0; i < len(block.Registers); i++ {
		for j := i + 1; j < len(block.Registers); j++ {
			a, b := block.Registers[i], block.Registers[j]
			aEnd := a.Offset() + a.Footprint()
			bEnd := b.Offset() + b.Footprint()
			if a.Offset() < bEnd && b.Offset() < aEnd {
				errs = append(errs, errors.New(errors.ErrCodeCollision,
					"registers %q and %q overlap in block %q",
					a.RegisterName(), b.RegisterName(), block.Name))
			}
		}
	}

	return errs
}

func validateFields(r RegularRegister, bi, ri int) []error {
	var errs []error
	size := r.Size()

	for fi, f := range r.Fields {
		if err := errors.ValidateEntityName(f.Name); err != nil {
			errs = append(errs, wrapAt(err, "blocks[%d].registers[%d].fields[%d]", bi, ri, fi))
		}
		if err := errors.ValidateAccess(f.Access); err != nil {
			errs = append(errs, wrapAt(err, "blocks[%d].registers[%d].fields[%d]", bi, ri, fi))
		}
		if f.BitWidth == 0 {
			errs = append(errs, errors.New(errors.ErrCodeInvalidDocument,
				"field %q in register %q has zero width", f.Name, r.Name))
			continue
		}
		if f.Hi() >= size {
			errs = append(errs, errors.New(errors.ErrCodeOutOfBounds,
				"field %q at %s exceeds register %q size %d",
				f.Name, f.Range(), r.Name, size))
		}
	}

	for i := 0; i < len(r.Fields); i++ {
		for j := i + 1; j < len(r.Fields); j++ {
			if r.Fields[i].BitWidth == 0 || r.Fields[j].BitWidth == 0 {
				continue
			}
			if r.Fields[i].Overlaps(r.Fields[j]) {
				errs = append(errs, errors.New(errors.ErrCodeCollision,
					"fields %q and %q overlap in register %q",
					r.Fields[i].Name, r.Fields[j].Name, r.Name))
			}
		}
	}

	return errs
}

func wrapAt(err error, format string, args ...any) error {
	return errors.Wrap(errors.GetCode(err), err, "at %s", fmt.Sprintf(format, args...))
}
