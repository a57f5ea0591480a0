package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Name prefixes for auto-generated entities.
const (
	FieldPrefix    = "field"
	RegisterPrefix = "reg"
	BlockPrefix    = "block"
)

// NextName generates a fresh name of the form <prefix><N+1>, where N is the
// highest numeric suffix among existing names sharing the prefix. Names that
// match the prefix but carry a non-numeric suffix are ignored. The scheme
// guarantees uniqueness within the collection without a global counter.
func NextName(existing []string, prefix string) string {
	max := 0
	for _, name := range existing {
		suffix, ok := strings.CutPrefix(name, prefix)
		if !ok || suffix == "" {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%d", prefix, max+1)
}
