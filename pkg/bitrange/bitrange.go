// Package bitrange parses and formats the bit-range notation used in
// register map documents.
//
// A bit range identifies a contiguous span of bits inside a register and is
// written MSB-first:
//
//	[7:0]   bits 7 down to 0 (8 bits wide)
//	[3]     single bit 3 (shorthand for [3:3])
//
// Two conventions exist in documents found in the wild: single-bit ranges
// appear both as "[3]" and "[3:3]". The parser accepts both; Format emits the
// shorthand. Use "regcraft fmt" to normalize an existing document.
//
// # Usage
//
//	hi, lo, ok := bitrange.Parse("[15:8]")
//	if !ok {
//	    // malformed notation; apply whatever fallback makes sense
//	}
//	s := bitrange.Format(hi, lo) // "[15:8]"
package bitrange

import (
	"fmt"
	"regexp"
	"strconv"
)

// rangeRE matches "[hi:lo]" and "[n]" with optional surrounding whitespace
// inside the brackets.
var rangeRE = regexp.MustCompile(`^\[\s*(\d+)\s*(?::\s*(\d+)\s*)?\]$`)

// Parse extracts (hi, lo) from a range string.
// It accepts "[hi:lo]" and the single-bit shorthand "[n]" (hi == lo == n).
// Malformed input returns ok=false rather than an error so callers can apply
// a fallback policy (default width, skip, etc.) without unwinding.
func Parse(s string) (hi, lo uint, ok bool) {
	m := rangeRE.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	h, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, 0, false
	}
	if m[2] == "" {
		return uint(h), uint(h), true
	}
	l, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return 0, 0, false
	}
	if l > h {
		// Ranges are written MSB-first; swap so hi >= lo always holds.
		h, l = l, h
	}
	return uint(h), uint(l), true
}

// Format renders a range in the canonical notation: "[n]" when hi == lo,
// otherwise "[hi:lo]".
func Format(hi, lo uint) string {
	if hi < lo {
		hi, lo = lo, hi
	}
	if hi == lo {
		return fmt.Sprintf("[%d]", hi)
	}
	return fmt.Sprintf("[%d:%d]", hi, lo)
}

// Width returns the number of bits covered by [hi:lo], inclusive.
func Width(hi, lo uint) uint {
	if hi < lo {
		hi, lo = lo, hi
	}
	return hi - lo + 1
}

// Unknown is the sentinel emitted when a field's position cannot be
// determined from either its numeric offset/width or its stored range string.
// Callers must treat it as non-fatal: skip repacking that field or assume a
// default width of 1.
const Unknown = "[?:?]"

// FromOffset renders the range string for a field at bit offset lo with the
// given width. Width 0 is treated as unknown.
func FromOffset(offset, width uint) string {
	if width == 0 {
		return Unknown
	}
	return Format(offset+width-1, offset)
}
