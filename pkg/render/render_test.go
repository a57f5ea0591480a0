package render

import (
	"strings"
	"testing"

	"github.com/bleviet/regcraft/pkg/regmap"
)

func testMap() *regmap.MemoryMap {
	return &regmap.MemoryMap{
		Name: "soc",
		Blocks: []regmap.AddressBlock{
			{
				Name:        "ctrl",
				BaseAddress: 0,
				Registers: []regmap.Register{
					regmap.RegularRegister{
						Name: "status",
						Fields: []regmap.BitField{
							{Name: "ready", BitOffset: 0, BitWidth: 1},
							{Name: "error", BitOffset: 1, BitWidth: 2},
						},
					},
					regmap.RegisterArray{
						Name: "ch", AddressOffset: 4, Count: 4, Stride: 8,
					},
				},
			},
			{Name: "dma", BaseAddress: 0x100, Size: 0x40},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testMap(), Options{})

	for _, want := range []string{
		"digraph memory_map",
		`label="soc"`,
		"ctrl  0x0 .. 0x23",
		"status  +0x0",
		"ch[4]  +0x4 (stride 0x8)",
		"dma  0x100 .. 0x13F",
		"block0 -> block1 [style=invis]",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "ready") {
		t.Error("field rows present without Detailed")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testMap(), Options{Detailed: true})
	if !strings.Contains(dot, "[0] ready") || !strings.Contains(dot, "[2:1] error") {
		t.Errorf("detailed DOT missing field rows:\n%s", dot)
	}
}

func TestEscapeRecord(t *testing.T) {
	got := escapeRecord(`a|b{c}<d>`)
	want := `a\|b\{c\}\<d\>`
	if got != want {
		t.Errorf("escapeRecord = %q, want %q", got, want)
	}
}

func TestRegisterSVG(t *testing.T) {
	svg := string(RegisterSVG(regmap.RegularRegister{
		Name: "status",
		Fields: []regmap.BitField{
			{Name: "ready", BitOffset: 0, BitWidth: 1},
			{Name: "mode<1>", BitOffset: 4, BitWidth: 2},
		},
	}))

	if !strings.HasPrefix(svg, "<svg ") {
		t.Fatalf("not an SVG document:\n%s", svg[:60])
	}
	if !strings.Contains(svg, ">ready</text>") {
		t.Error("field label missing")
	}
	if !strings.Contains(svg, "mode&lt;1&gt;") {
		t.Error("field label not XML-escaped")
	}
	if !strings.Contains(svg, gapFill) {
		t.Error("gap segments missing")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 120.75 80.25">` + "\n<g></g></svg>")
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 120.75 80.25"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="121" height="80"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}
}
