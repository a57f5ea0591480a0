package session

import (
	"github.com/bleviet/regcraft/pkg/bitrange"
	"github.com/bleviet/regcraft/pkg/errors"
	"github.com/bleviet/regcraft/pkg/regmap"
)

// RowDraft holds the in-progress text of one field row while the user types.
// The UI owns the draft; nothing touches the document until Commit. Errs
// collects per-column validation problems for inline display and is refreshed
// by every Validate call.
type RowDraft struct {
	Name  string
	Bits  string
	Reset string

	Errs []error
}

// NewRowDraft seeds a draft from the current field state.
func NewRowDraft(f regmap.BitField) RowDraft {
	d := RowDraft{Name: f.Name, Bits: f.Range()}
	if f.ResetValue != nil {
		d.Reset = bitrange.FormatHex(int64(*f.ResetValue))
	}
	return d
}

// Validate checks the draft against the register it targets without touching
// the document. field is the row's index; registerSize bounds bit positions.
// It reports whether the draft is committable.
func (d *RowDraft) Validate(fields []regmap.BitField, field int, registerSize uint) bool {
	d.Errs = d.Errs[:0]

	if err := errors.ValidateEntityName(d.Name); err != nil {
		d.Errs = append(d.Errs, err)
	} else {
		for i, f := range fields {
			if i != field && f.Name == d.Name {
				d.Errs = append(d.Errs, errors.New(errors.ErrCodeInvalidName,
					"a field named %q already exists", d.Name))
				break
			}
		}
	}

	if d.Bits != "" {
		hi, lo, ok := bitrange.Parse(d.Bits)
		if !ok {
			d.Errs = append(d.Errs, errors.New(errors.ErrCodeInvalidRange,
				"cannot parse bit range %q", d.Bits))
		} else if hi >= registerSize {
			d.Errs = append(d.Errs, errors.New(errors.ErrCodeOutOfBounds,
				"bit range [%d:%d] is outside register bounds", hi, lo))
		} else {
			probe := regmap.BitField{BitOffset: lo, BitWidth: hi - lo + 1}
			for i, f := range fields {
				if i == field || f.BitWidth == 0 {
					continue
				}
				if f.Overlaps(probe) {
					d.Errs = append(d.Errs, errors.New(errors.ErrCodeCollision,
						"bit range [%d:%d] overlaps %q", hi, lo, f.Name))
					break
				}
			}
		}
	}

	if d.Reset != "" {
		if _, ok := bitrange.ParseNumber(d.Reset); !ok {
			d.Errs = append(d.Errs, errors.New(errors.ErrCodeInvalidRange,
				"cannot parse reset value %q", d.Reset))
		}
	}

	return len(d.Errs) == 0
}

// CommitRow applies a validated draft to one field row. The parsed bit range
// becomes the field's numeric position and the stored range string is
// regenerated in canonical form, so "[3:03]" commits as "[3]".
func (s *Session) CommitRow(block, reg, field int, d *RowDraft) error {
	_, _, r, err := s.locateRegister(block, reg)
	if err != nil {
		return err
	}
	if field < 0 || field >= len(r.Fields) {
		return errors.New(errors.ErrCodeNotFound,
			"no field at index %d in register %q", field, r.Name)
	}
	if !d.Validate(r.Fields, field, r.Size()) {
		return d.Errs[0]
	}

	next := make([]regmap.BitField, len(r.Fields))
	copy(next, r.Fields)
	f := &next[field]
	f.Name = d.Name
	if d.Bits != "" {
		hi, lo, _ := bitrange.Parse(d.Bits)
		f.BitOffset = lo
		f.BitWidth = hi - lo + 1
	}
	f.Bits = f.Range()
	if d.Reset != "" {
		v, _ := bitrange.ParseNumber(d.Reset)
		f.ResetValue = &v
	} else {
		f.ResetValue = nil
	}

	sortByOffset(next)
	return s.writeFields(block, reg, next)
}
