package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bleviet/regcraft/pkg/document"
	"github.com/bleviet/regcraft/pkg/regmap"
	"github.com/bleviet/regcraft/pkg/render"
)

// newRenderCmd creates the render command.
func newRenderCmd() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
		register string
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Generate a diagram from a map document",
		Long: `Render a memory-map document as a diagram.

By default the whole map is rendered as a block diagram. With --register
"block/reg" a single register's bit layout is rendered as an SVG strip
instead.

Formats: svg (default), png, pdf, dot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			path := args[0]

			text, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			doc, err := document.Parse(text)
			if err != nil {
				return err
			}
			m, err := doc.Map()
			if err != nil {
				return err
			}

			prog := newProgress(logger)

			var out []byte
			if register != "" {
				out, err = renderRegisterStrip(m, register, format)
			} else {
				out, err = renderMap(m, format, detailed)
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = outputName(path, format)
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			prog.done(fmt.Sprintf("Rendered %d block(s)", len(m.Blocks)))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, pdf, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include field rows in register labels")
	cmd.Flags().StringVar(&register, "register", "", `render one register's bit strip ("block/reg")`)
	return cmd
}

func renderMap(m *regmap.MemoryMap, format string, detailed bool) ([]byte, error) {
	dot := render.ToDOT(m, render.Options{Detailed: detailed})
	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		return render.RenderSVG(dot)
	case "png":
		return render.RenderPNG(dot)
	case "pdf":
		svg, err := render.RenderSVG(dot)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(svg)
	}
	return nil, fmt.Errorf("unknown format %q (want svg, png, pdf, or dot)", format)
}

func renderRegisterStrip(m *regmap.MemoryMap, selector, format string) ([]byte, error) {
	reg, err := findRegister(m, selector)
	if err != nil {
		return nil, err
	}
	svg := render.RegisterSVG(reg)
	switch format {
	case "svg":
		return svg, nil
	case "pdf":
		return render.ToPDF(svg)
	}
	return nil, fmt.Errorf("register strips support svg and pdf, not %q", format)
}

// findRegister resolves a "block/reg" selector against the map.
func findRegister(m *regmap.MemoryMap, selector string) (regmap.RegularRegister, error) {
	blockName, regName, ok := strings.Cut(selector, "/")
	if !ok {
		return regmap.RegularRegister{}, fmt.Errorf(`register selector %q must be "block/reg"`, selector)
	}
	for _, b := range m.Blocks {
		if b.Name != blockName {
			continue
		}
		for _, r := range b.Registers {
			if reg, isRegular := r.(regmap.RegularRegister); isRegular && reg.Name == regName {
				return reg, nil
			}
		}
		return regmap.RegularRegister{}, fmt.Errorf("no register %q in block %q", regName, blockName)
	}
	return regmap.RegularRegister{}, fmt.Errorf("no block %q in map", blockName)
}

// outputName swaps the input extension for the format extension.
func outputName(input, format string) string {
	base := strings.TrimSuffix(input, ".yaml")
	base = strings.TrimSuffix(base, ".yml")
	return base + "." + format
}
