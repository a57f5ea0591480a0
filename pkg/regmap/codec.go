package regmap

import (
	"github.com/bleviet/regcraft/pkg/bitrange"
	"github.com/bleviet/regcraft/pkg/errors"
)

// =============================================================================
// Tree Decoding - document tree → typed model
// =============================================================================

// FromTree decodes a memory-map node of the document tree (a generic
// map[string]any as produced by the YAML decoder) into a typed MemoryMap.
//
// Field positions follow the authority rule: when a field carries a usable
// numeric bit_offset/bit_width pair it wins over the bits string; the string
// is only consulted when the numeric pair is absent or malformed.
func FromTree(node any) (*MemoryMap, error) {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"memory map node is %T, want a mapping", node)
	}

	m := &MemoryMap{
		Name:        asString(obj["name"]),
		Description: asString(obj["description"]),
	}

	blocks, _ := obj["address_blocks"].([]any)
	for _, bn := range blocks {
		block, err := blockFromTree(bn)
		if err != nil {
			return nil, err
		}
		m.Blocks = append(m.Blocks, block)
	}
	return m, nil
}

func blockFromTree(node any) (AddressBlock, error) {
	obj, ok := node.(map[string]any)
	if !ok {
		return AddressBlock{}, errors.New(errors.ErrCodeInvalidDocument,
			"address block node is %T, want a mapping", node)
	}

	block := AddressBlock{
		Name:        asString(obj["name"]),
		BaseAddress: asUint64(obj["base_address"]),
		Size:        asUint64(obj["size"]),
		Usage:       asString(obj["usage"]),
		Access:      asString(obj["access"]),
		Description: asString(obj["description"]),
	}

	regs, _ := obj["registers"].([]any)
	for _, rn := range regs {
		reg, err := registerFromTree(rn)
		if err != nil {
			return AddressBlock{}, err
		}
		block.Registers = append(block.Registers, reg)
	}
	return block, nil
}

func registerFromTree(node any) (Register, error) {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"register node is %T, want a mapping", node)
	}

	if asString(obj["__kind"]) == ArrayKind {
		arr := RegisterArray{
			Name:          asString(obj["name"]),
			AddressOffset: asUint64(obj["address_offset"]),
			Count:         uint(asUint64(obj["count"])),
			Stride:        asUint64(obj["stride"]),
		}
		inner, _ := obj["registers"].([]any)
		for _, rn := range inner {
			reg, err := registerFromTree(rn)
			if err != nil {
				return nil, err
			}
			rr, ok := reg.(RegularRegister)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidDocument,
					"register array %q contains a nested array", arr.Name)
			}
			arr.Registers = append(arr.Registers, rr)
		}
		return arr, nil
	}

	reg := RegularRegister{
		Name:          asString(obj["name"]),
		AddressOffset: asUint64(obj["address_offset"]),
		SizeBits:      uint(asUint64(obj["size"])),
		Access:        asString(obj["access"]),
		Description:   asString(obj["description"]),
	}
	if v, ok := obj["reset_value"]; ok && v != nil {
		rv := asUint64(v)
		reg.ResetValue = &rv
	}

	fields, _ := obj["fields"].([]any)
	for _, fn := range fields {
		field, err := fieldFromTree(fn)
		if err != nil {
			return nil, err
		}
		reg.Fields = append(reg.Fields, field)
	}
	return reg, nil
}

func fieldFromTree(node any) (BitField, error) {
	obj, ok := node.(map[string]any)
	if !ok {
		return BitField{}, errors.New(errors.ErrCodeInvalidDocument,
			"field node is %T, want a mapping", node)
	}

	f := BitField{
		Name:        asString(obj["name"]),
		Access:      asString(obj["access"]),
		Description: asString(obj["description"]),
		Bits:        asString(obj["bits"]),
	}
	if v, ok := obj["reset_value"]; ok && v != nil {
		rv := asUint64(v)
		f.ResetValue = &rv
	}

	// Numeric pair wins when usable; otherwise fall back to the bits string.
	offset, hasOffset := lookupUint(obj, "bit_offset")
	width, hasWidth := lookupUint(obj, "bit_width")
	switch {
	case hasOffset && hasWidth && width >= 1:
		f.BitOffset = uint(offset)
		f.BitWidth = uint(width)
	default:
		if hi, lo, ok := bitrange.Parse(f.Bits); ok {
			f.BitOffset = lo
			f.BitWidth = bitrange.Width(hi, lo)
		} else {
			// Position unknown: default a 1-bit field, callers repack later.
			f.BitWidth = 1
		}
	}
	return f, nil
}

// =============================================================================
// Tree Encoding - typed model → document tree
// =============================================================================

// ToTree encodes a MemoryMap as a generic document tree ready for YAML
// serialization. The bits range string is regenerated from the numeric
// offset/width pair for every field.
func ToTree(m *MemoryMap) map[string]any {
	obj := map[string]any{"name": m.Name}
	if m.Description != "" {
		obj["description"] = m.Description
	}
	blocks := make([]any, len(m.Blocks))
	for i, b := range m.Blocks {
		blocks[i] = blockToTree(b)
	}
	obj["address_blocks"] = blocks
	return obj
}

func blockToTree(b AddressBlock) map[string]any {
	obj := map[string]any{
		"name":         b.Name,
		"base_address": b.BaseAddress,
	}
	if b.Size > 0 {
		obj["size"] = b.Size
	}
	if b.Usage != "" {
		obj["usage"] = b.Usage
	}
	if b.Access != "" {
		obj["access"] = b.Access
	}
	if b.Description != "" {
		obj["description"] = b.Description
	}
	regs := make([]any, len(b.Registers))
	for i, r := range b.Registers {
		regs[i] = RegisterToTree(r)
	}
	obj["registers"] = regs
	return obj
}

// RegisterToTree encodes a single register (either variant) as a tree node.
func RegisterToTree(reg Register) map[string]any {
	switch r := reg.(type) {
	case RegularRegister:
		obj := map[string]any{
			"name":           r.Name,
			"address_offset": r.AddressOffset,
		}
		if r.SizeBits != 0 {
			obj["size"] = uint64(r.SizeBits)
		}
		if r.Access != "" {
			obj["access"] = r.Access
		}
		if r.ResetValue != nil {
			obj["reset_value"] = *r.ResetValue
		}
		if r.Description != "" {
			obj["description"] = r.Description
		}
		fields := make([]any, len(r.Fields))
		for i, f := range r.Fields {
			fields[i] = FieldToTree(f)
		}
		obj["fields"] = fields
		return obj

	case RegisterArray:
		obj := map[string]any{
			"__kind":         ArrayKind,
			"name":           r.Name,
			"address_offset": r.AddressOffset,
			"count":          uint64(r.Count),
			"stride":         r.Stride,
		}
		inner := make([]any, len(r.Registers))
		for i, rr := range r.Registers {
			inner[i] = RegisterToTree(rr)
		}
		obj["registers"] = inner
		return obj
	}
	return nil
}

// FieldToTree encodes a bit field as a tree node, regenerating the bits
// string from the numeric position.
func FieldToTree(f BitField) map[string]any {
	obj := map[string]any{
		"name":       f.Name,
		"bit_offset": uint64(f.BitOffset),
		"bit_width":  uint64(f.BitWidth),
		"bits":       f.Range(),
	}
	if f.Access != "" {
		obj["access"] = f.Access
	}
	if f.ResetValue != nil {
		obj["reset_value"] = *f.ResetValue
	}
	if f.Description != "" {
		obj["description"] = f.Description
	}
	return obj
}

// =============================================================================
// Scalar Helpers
// =============================================================================

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asUint64(v any) uint64 {
	u, _ := toUint64(v)
	return u
}

func lookupUint(obj map[string]any, key string) (uint64, bool) {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0, false
	}
	return toUint64(v)
}

// toUint64 normalizes the numeric types the YAML decoder may produce.
// Negative and fractional values are rejected.
func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, false
		}
		return uint64(n), true
	case string:
		return bitrange.ParseNumber(n)
	}
	return 0, false
}
