// Package render turns memory maps into visual outputs.
//
// # Overview
//
// Two renderers are provided:
//
//   - Map diagrams: the whole memory map as a Graphviz record graph, one
//     record per address block with its registers, rendered to SVG or PNG
//     via [ToDOT] and [RenderSVG]/[RenderPNG].
//   - Register strips: a single register's bit layout as a self-contained
//     SVG, one cell per segment, via [RegisterSVG].
//
// # Format Conversion
//
// [ToPDF] converts any produced SVG to PDF using the external rsvg-convert
// tool (from librsvg).
//
//	dot := render.ToDOT(m)
//	svg, err := render.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
package render
