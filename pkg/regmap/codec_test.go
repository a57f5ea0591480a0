package regmap

import (
	"testing"

	"github.com/bleviet/regcraft/pkg/errors"
)

func TestFieldFromTreeAuthority(t *testing.T) {
	tests := []struct {
		name   string
		node   map[string]any
		hi, lo uint
	}{
		{
			name: "numeric pair wins over bits string",
			node: map[string]any{
				"name": "mode", "bit_offset": 4, "bit_width": 2, "bits": "[9:8]",
			},
			hi: 5, lo: 4,
		},
		{
			name: "bits string used when numeric pair absent",
			node: map[string]any{"name": "mode", "bits": "[9:8]"},
			hi:   9, lo: 8,
		},
		{
			name: "zero width falls back to bits string",
			node: map[string]any{
				"name": "mode", "bit_offset": 4, "bit_width": 0, "bits": "[9:8]",
			},
			hi: 9, lo: 8,
		},
		{
			name: "nothing usable defaults to one bit at zero",
			node: map[string]any{"name": "mode", "bits": "garbage"},
			hi:   0, lo: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := fieldFromTree(tt.node)
			if err != nil {
				t.Fatalf("fieldFromTree: %v", err)
			}
			if f.Hi() != tt.hi || f.Lo() != tt.lo {
				t.Errorf("position = [%d:%d], want [%d:%d]", f.Hi(), f.Lo(), tt.hi, tt.lo)
			}
		})
	}
}

func TestFromTreeToTreeRoundTrip(t *testing.T) {
	reset := uint64(0x8000)
	m := &MemoryMap{
		Name: "soc",
		Blocks: []AddressBlock{
			{
				Name:        "ctrl",
				BaseAddress: 0x1000,
				Usage:       "register",
				Registers: []Register{
					RegularRegister{
						Name:          "status",
						AddressOffset: 0,
						Access:        "read-only",
						ResetValue:    &reset,
						Fields: []BitField{
							{Name: "ready", BitOffset: 0, BitWidth: 1, Access: "read-only"},
							{Name: "mode", BitOffset: 4, BitWidth: 2},
						},
					},
					RegisterArray{
						Name: "ch", AddressOffset: 4, Count: 4, Stride: 8,
						Registers: []RegularRegister{
							{Name: "cfg", AddressOffset: 0},
						},
					},
				},
			},
		},
	}

	back, err := FromTree(ToTree(m))
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}

	if back.Name != "soc" || len(back.Blocks) != 1 {
		t.Fatalf("map shape lost: %+v", back)
	}
	b := back.Blocks[0]
	if b.Name != "ctrl" || b.BaseAddress != 0x1000 || len(b.Registers) != 2 {
		t.Fatalf("block lost: %+v", b)
	}

	reg, ok := b.Registers[0].(RegularRegister)
	if !ok {
		t.Fatalf("register 0 decoded as %T", b.Registers[0])
	}
	if reg.ResetValue == nil || *reg.ResetValue != 0x8000 {
		t.Errorf("reset value lost: %v", reg.ResetValue)
	}
	if len(reg.Fields) != 2 || reg.Fields[1].Hi() != 5 || reg.Fields[1].Lo() != 4 {
		t.Errorf("fields lost: %+v", reg.Fields)
	}
	// Bits strings are regenerated on encode.
	if reg.Fields[1].Bits != "[5:4]" {
		t.Errorf("bits = %q, want regenerated [5:4]", reg.Fields[1].Bits)
	}

	arr, ok := b.Registers[1].(RegisterArray)
	if !ok {
		t.Fatalf("register 1 decoded as %T", b.Registers[1])
	}
	if arr.Count != 4 || arr.Stride != 8 || len(arr.Registers) != 1 {
		t.Errorf("array lost: %+v", arr)
	}
}

func TestFromTreeRejectsNonMapping(t *testing.T) {
	_, err := FromTree([]any{"not", "a", "map"})
	if errors.GetCode(err) != errors.ErrCodeInvalidDocument {
		t.Errorf("error = %v, want INVALID_DOCUMENT", err)
	}
}

func TestRegisterFootprints(t *testing.T) {
	if got := (RegularRegister{}).Footprint(); got != 4 {
		t.Errorf("regular footprint = %d, want 4", got)
	}
	if got := (RegisterArray{Count: 4, Stride: 8}).Footprint(); got != 32 {
		t.Errorf("array footprint = %d, want 32", got)
	}
	// Degenerate counts and strides fall back to one regular slot.
	if got := (RegisterArray{}).Footprint(); got != 4 {
		t.Errorf("zero-value array footprint = %d, want 4", got)
	}
}

func TestBlockSpan(t *testing.T) {
	b := AddressBlock{Registers: []Register{RegularRegister{}, RegularRegister{AddressOffset: 4}}}
	if b.Span() != 8 {
		t.Errorf("derived span = %d, want 8", b.Span())
	}
	b.Size = 0x100
	if b.Span() != 0x100 {
		t.Errorf("explicit span = %d, want 0x100", b.Span())
	}
	if (AddressBlock{}).Span() != RegularFootprint {
		t.Error("empty block should span one register footprint")
	}
}
