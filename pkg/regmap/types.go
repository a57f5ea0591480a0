package regmap

import (
	"github.com/bleviet/regcraft/pkg/bitrange"
)

// =============================================================================
// Constants
// =============================================================================

// DefaultRegisterSize is the register width in bits when a document does not
// specify one.
const DefaultRegisterSize = 32

// RegularFootprint is the byte footprint of a plain (non-array) register.
// Register byte spans are laid out on this fixed granularity regardless of
// the register's bit width.
const RegularFootprint = 4

// ArrayKind is the discriminator value stored under the "__kind" key for
// register arrays in the document tree.
const ArrayKind = "array"

// =============================================================================
// BitField
// =============================================================================

// BitField is a named sub-range of bits within a register.
//
// The numeric BitOffset/BitWidth pair is authoritative; Bits holds the range
// notation as last seen in the document and is regenerated from the numeric
// pair on every structural edit.
type BitField struct {
	Name        string
	BitOffset   uint
	BitWidth    uint // always >= 1 for a positioned field
	Access      string
	ResetValue  *uint64
	Description string
	Bits        string
}

// Lo returns the field's lowest bit position.
func (f BitField) Lo() uint { return f.BitOffset }

// Hi returns the field's highest bit position (inclusive).
func (f BitField) Hi() uint { return f.BitOffset + f.BitWidth - 1 }

// Range returns the canonical range notation for the field. When the numeric
// position is unusable (zero width) it falls back to the stored Bits string,
// and finally to the bitrange.Unknown sentinel.
func (f BitField) Range() string {
	if f.BitWidth >= 1 {
		return bitrange.FromOffset(f.BitOffset, f.BitWidth)
	}
	if f.Bits != "" {
		return f.Bits
	}
	return bitrange.Unknown
}

// Overlaps reports whether two fields occupy any common bit.
func (f BitField) Overlaps(other BitField) bool {
	return f.Lo() <= other.Hi() && other.Lo() <= f.Hi()
}

// =============================================================================
// Register - closed sum of RegularRegister | RegisterArray
// =============================================================================

// Register is either a RegularRegister or a RegisterArray. The interface is
// sealed; consumers switch exhaustively on the two concrete types.
type Register interface {
	// RegisterName returns the register's name.
	RegisterName() string
	// Offset returns the byte offset within the owning address block.
	Offset() uint64
	// Footprint returns the byte span the register occupies.
	Footprint() uint64
	// WithOffset returns a copy positioned at the given byte offset.
	WithOffset(offset uint64) Register

	sealed()
}

// RegularRegister is a single addressable register with bit fields.
type RegularRegister struct {
	Name          string
	AddressOffset uint64
	SizeBits      uint
	Access        string
	ResetValue    *uint64
	Description   string
	Fields        []BitField
}

func (r RegularRegister) RegisterName() string { return r.Name }
func (r RegularRegister) Offset() uint64       { return r.AddressOffset }
func (r RegularRegister) Footprint() uint64    { return RegularFootprint }

func (r RegularRegister) WithOffset(offset uint64) Register {
	r.AddressOffset = offset
	return r
}

func (RegularRegister) sealed() {}

// Size returns the register width in bits, defaulting when unset.
func (r RegularRegister) Size() uint {
	if r.SizeBits == 0 {
		return DefaultRegisterSize
	}
	return r.SizeBits
}

// RegisterArray is a repeated register template: Count instances spaced
// Stride bytes apart starting at AddressOffset.
type RegisterArray struct {
	Name          string
	AddressOffset uint64
	Count         uint   // >= 1
	Stride        uint64 // >= 1
	Registers     []RegularRegister
}

func (r RegisterArray) RegisterName() string { return r.Name }
func (r RegisterArray) Offset() uint64       { return r.AddressOffset }

// Footprint is the full byte span of all instances.
func (r RegisterArray) Footprint() uint64 {
	count := r.Count
	if count == 0 {
		count = 1
	}
	stride := r.Stride
	if stride == 0 {
		stride = RegularFootprint
	}
	return uint64(count) * stride
}

func (r RegisterArray) WithOffset(offset uint64) Register {
	r.AddressOffset = offset
	return r
}

func (RegisterArray) sealed() {}

// =============================================================================
// AddressBlock
// =============================================================================

// AddressBlock is a contiguous address-space region containing registers.
type AddressBlock struct {
	Name        string
	BaseAddress uint64
	Size        uint64 // explicit size override; 0 means derived from children
	Usage       string
	Access      string
	Description string
	Registers   []Register
}

// Span returns the block's byte size: the explicit Size when set, otherwise
// the sum of the children's footprints (minimum one register footprint so an
// empty block still occupies an address slot).
func (b AddressBlock) Span() uint64 {
	if b.Size > 0 {
		return b.Size
	}
	var sum uint64
	for _, r := range b.Registers {
		sum += r.Footprint()
	}
	if sum == 0 {
		return RegularFootprint
	}
	return sum
}

// End returns the first address past the block.
func (b AddressBlock) End() uint64 { return b.BaseAddress + b.Span() }

// =============================================================================
// MemoryMap
// =============================================================================

// MemoryMap is the document root: an ordered list of address blocks.
type MemoryMap struct {
	Name        string
	Description string
	Blocks      []AddressBlock
}
