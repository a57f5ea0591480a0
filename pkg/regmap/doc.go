// Package regmap defines the data model for hardware register memory maps.
//
// A memory map is a tree: the map owns an ordered list of address blocks,
// each block owns registers (regular or arrayed), and each regular register
// owns bit fields. Positions are explicit at every level: fields carry a bit
// offset and width inside their register, registers carry a byte offset
// inside their block, and blocks carry a base address inside the map.
//
// # Layout invariants
//
// After any successful edit the following hold:
//   - Within one register, field ranges are pairwise disjoint and lie inside
//     [0, SizeBits).
//   - Within one block, register byte spans are pairwise disjoint.
//   - Within one map, block address spans are pairwise disjoint.
//
// The layout package maintains these invariants; Validate reports violations
// for documents edited by hand.
//
// # Register variants
//
// Register is a closed sum of RegularRegister and RegisterArray. Consumers
// switch exhaustively on the concrete type:
//
//	switch r := reg.(type) {
//	case regmap.RegularRegister:
//	    // fields, size, reset value
//	case regmap.RegisterArray:
//	    // count, stride, template registers
//	}
package regmap
