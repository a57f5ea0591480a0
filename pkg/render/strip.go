package render

import (
	"bytes"
	"fmt"

	"github.com/bleviet/regcraft/pkg/layout"
	"github.com/bleviet/regcraft/pkg/regmap"
)

// Segment fill colors, one per palette slot, cycled by field index.
var fieldFill = []string{
	"#7aa2f7", "#9ece6a", "#e0af68", "#f7768e", "#bb9af7", "#7dcfff",
}

const gapFill = "#2a2e3f"

const (
	cellWidth   = 26.0
	cellHeight  = 34.0
	labelHeight = 18.0
	stripPad    = 8.0
)

// RegisterSVG renders one register's bit layout as a self-contained SVG
// strip: one cell per bit, MSB on the left, field segments colored by
// palette slot and gaps greyed out. The field name is centered under each
// field segment.
func RegisterSVG(reg regmap.RegularRegister) []byte {
	size := reg.Size()
	segments := layout.BuildSegments(reg.Fields, size)

	width := float64(size)*cellWidth + 2*stripPad
	height := cellHeight + 2*labelHeight + 2*stripPad

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <style>text { font-family: monospace; font-size: 11px; fill: #c0caf5; }</style>`+"\n")

	for _, s := range segments {
		// Bit positions map right-to-left: bit 0 is the rightmost cell.
		x := stripPad + float64(size-1-s.Start)*cellWidth
		w := float64(s.Width()) * cellWidth

		fill := gapFill
		if s.Kind == layout.SegmentField {
			fill = fieldFill[s.Color]
		}
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#1a1b26"/>`+"\n",
			x, stripPad+labelHeight, w, cellHeight, fill)

		if s.Kind == layout.SegmentField {
			fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
				x+w/2, stripPad+labelHeight+cellHeight+labelHeight-4, escapeXML(s.Name))
		}
	}

	// Bit indices above the strip, one per cell.
	for bit := uint(0); bit < size; bit++ {
		x := stripPad + float64(size-1-bit)*cellWidth + cellWidth/2
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle">%d</text>`+"\n",
			x, stripPad+labelHeight-6, bit)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
