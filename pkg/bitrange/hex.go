package bitrange

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatHex renders v as an uppercase hex literal with a lowercase prefix,
// e.g. 0 → "0x0", 255 → "0xFF". Negative values clamp to "0x0"; display code
// never shows a negative address or reset value.
func FormatHex(v int64) string {
	if v < 0 {
		v = 0
	}
	return fmt.Sprintf("0x%X", v)
}

// ParseNumber parses a non-negative integer in decimal, 0x-prefixed hex, or
// 0b-prefixed binary. It is the inverse of FormatHex for user-entered address
// and reset values; binary literals are common for reset masks.
func ParseNumber(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		return v, err == nil
	}
	if strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		v, err := strconv.ParseUint(s[2:], 2, 64)
		return v, err == nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return v, err == nil
}
