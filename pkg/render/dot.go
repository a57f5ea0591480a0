package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bleviet/regcraft/pkg/bitrange"
	"github.com/bleviet/regcraft/pkg/regmap"
)

// Options configures map diagram rendering.
type Options struct {
	// Detailed includes per-register field rows in the record labels.
	// When false, each register is a single row with name and offset.
	Detailed bool
}

// ToDOT converts a memory map to Graphviz DOT format. Each address block
// becomes a record node listing its registers top-down by ascending offset;
// blocks are chained by invisible edges so Graphviz keeps address order.
//
// The resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(m *regmap.MemoryMap, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph memory_map {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=filled, fillcolor=white, fontsize=14, fontname=\"monospace\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("\n")

	if m.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n\n", m.Name)
	}

	for i, b := range m.Blocks {
		fmt.Fprintf(&buf, "  block%d [label=\"%s\"];\n", i, blockLabel(b, opts.Detailed))
	}

	buf.WriteString("\n")
	for i := 1; i < len(m.Blocks); i++ {
		fmt.Fprintf(&buf, "  block%d -> block%d [style=invis];\n", i-1, i)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func blockLabel(b regmap.AddressBlock, detailed bool) string {
	rows := []string{fmt.Sprintf("%s  %s .. %s",
		escapeRecord(b.Name),
		bitrange.FormatHex(int64(b.BaseAddress)),
		bitrange.FormatHex(int64(b.End()-1)))}

	for _, r := range b.Registers {
		rows = append(rows, registerRow(r, detailed)...)
	}
	return strings.Join(rows, "|")
}

func registerRow(r regmap.Register, detailed bool) []string {
	switch reg := r.(type) {
	case regmap.RegularRegister:
		rows := []string{fmt.Sprintf("%s  +%s",
			escapeRecord(reg.Name), bitrange.FormatHex(int64(reg.AddressOffset)))}
		if detailed {
			for _, f := range reg.Fields {
				rows = append(rows, fmt.Sprintf("  %s %s", f.Range(), escapeRecord(f.Name)))
			}
		}
		return rows
	case regmap.RegisterArray:
		return []string{fmt.Sprintf("%s[%d]  +%s (stride %s)",
			escapeRecord(reg.Name), reg.Count,
			bitrange.FormatHex(int64(reg.AddressOffset)),
			bitrange.FormatHex(int64(reg.Stride)))}
	}
	return nil
}

// escapeRecord escapes the characters DOT record labels treat specially.
func escapeRecord(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`, `"`, `\"`, "|", `\|`, "{", `\{`, "}", `\}`, "<", `\<`, ">", `\>`,
	)
	return r.Replace(s)
}
