package document

import (
	"strings"
	"testing"
	"time"

	"github.com/bleviet/regcraft/pkg/errors"
	"github.com/bleviet/regcraft/pkg/regmap"
)

const mapDoc = `name: soc
address_blocks:
  - name: ctrl
    base_address: 0
    registers:
      - name: status
        address_offset: 0
        fields:
          - name: ready
            bit_offset: 0
            bit_width: 1
            bits: "[0]"
`

func TestParseBareMapRoot(t *testing.T) {
	doc, err := Parse([]byte(mapDoc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.RootPath()) != 0 {
		t.Errorf("root path = %v, want empty for a bare map", doc.RootPath())
	}
	m, err := doc.Map()
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if m.Name != "soc" || len(m.Blocks) != 1 {
		t.Errorf("decoded %q with %d blocks", m.Name, len(m.Blocks))
	}
}

func TestParseArrayRoot(t *testing.T) {
	doc, err := Parse([]byte("- name: soc\n  address_blocks: []\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.RootPath()) != 1 || doc.RootPath()[0] != 0 {
		t.Errorf("root path = %v, want [0]", doc.RootPath())
	}
	if m, err := doc.Map(); err != nil || m.Name != "soc" {
		t.Errorf("map = %v, %v", m, err)
	}
}

func TestParseMemoryMapsRoot(t *testing.T) {
	doc, err := Parse([]byte("memory_maps:\n  - name: soc\n    address_blocks: []\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := Path{"memory_maps", 0}
	if got := doc.RootPath(); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("root path = %v, want %v", got, want)
	}
}

func TestParseEmptyInput(t *testing.T) {
	doc, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	m, err := doc.Map()
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if m.Name != "memory_map" || len(m.Blocks) != 0 {
		t.Errorf("fresh document = %q with %d blocks", m.Name, len(m.Blocks))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"malformed yaml", "[unclosed"},
		{"scalar root", "42"},
		{"empty array", "[]"},
		{"empty memory_maps", "memory_maps: []"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.text))
			if errors.GetCode(err) != errors.ErrCodeInvalidDocument {
				t.Errorf("code = %v, want INVALID_DOCUMENT", errors.GetCode(err))
			}
		})
	}
}

func TestApplyAndDump(t *testing.T) {
	doc, err := Parse([]byte(mapDoc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	path := Path{"address_blocks", 0, "registers", 0, "name"}
	if err := doc.Apply(path, "ctrl_status"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	text, err := doc.Dump()
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if !strings.Contains(string(text), "ctrl_status") {
		t.Error("dumped text missing the applied value")
	}

	reparsed, err := Parse(text)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	got, err := reparsed.Get(path)
	if err != nil || got != "ctrl_status" {
		t.Errorf("round-tripped value = %v, %v", got, err)
	}
}

func TestApplyRelativeToRoot(t *testing.T) {
	// Paths are relative to the selection root, not the document top.
	doc, err := Parse([]byte("memory_maps:\n  - name: soc\n    address_blocks: []\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := doc.Apply(Path{"name"}, "renamed"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	got, err := GetAtPath(doc.Tree(), Path{"memory_maps", 0, "name"})
	if err != nil || got != "renamed" {
		t.Errorf("absolute lookup = %v, %v", got, err)
	}
}

func TestRemove(t *testing.T) {
	doc, err := Parse([]byte(mapDoc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := doc.Remove(Path{"address_blocks", 0}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	m, err := doc.Map()
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if len(m.Blocks) != 0 {
		t.Errorf("got %d blocks after remove, want 0", len(m.Blocks))
	}
}

func TestSetMapRegeneratesDerivedStrings(t *testing.T) {
	doc, err := Parse([]byte(mapDoc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	m, err := doc.Map()
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	reg := m.Blocks[0].Registers[0].(regmap.RegularRegister)
	reg.Fields[0].BitWidth = 2
	m.Blocks[0].Registers[0] = reg
	if err := doc.SetMap(m); err != nil {
		t.Fatalf("set map failed: %v", err)
	}
	text, err := doc.Dump()
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if !strings.Contains(string(text), "[1:0]") {
		t.Errorf("dump missing regenerated bits string:\n%s", text)
	}
	if strings.Contains(string(text), "__kind") {
		t.Error("regular register must not carry the array discriminator")
	}
}

// =============================================================================
// Pusher
// =============================================================================

type recordingHost struct {
	ch chan string
}

func (h *recordingHost) PushText(text string) { h.ch <- text }

func TestPusherDebounces(t *testing.T) {
	host := &recordingHost{ch: make(chan string, 8)}
	p := NewPusher(host, 20*time.Millisecond)

	p.Push("one")
	p.Push("two")
	p.Push("three")

	select {
	case got := <-host.ch:
		if got != "three" {
			t.Errorf("pushed %q, want the latest text", got)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced push never fired")
	}

	select {
	case got := <-host.ch:
		t.Errorf("unexpected extra push %q", got)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestPusherFlush(t *testing.T) {
	host := &recordingHost{ch: make(chan string, 1)}
	p := NewPusher(host, time.Hour)

	p.Push("pending")
	p.Flush()

	select {
	case got := <-host.ch:
		if got != "pending" {
			t.Errorf("flushed %q", got)
		}
	default:
		t.Fatal("flush did not deliver synchronously")
	}

	// A second flush with nothing pending is a no-op.
	p.Flush()
	select {
	case got := <-host.ch:
		t.Errorf("unexpected push %q after empty flush", got)
	default:
	}
}

func TestPusherStop(t *testing.T) {
	host := &recordingHost{ch: make(chan string, 1)}
	p := NewPusher(host, 10*time.Millisecond)

	p.Push("doomed")
	p.Stop()

	select {
	case got := <-host.ch:
		t.Errorf("push %q delivered after stop", got)
	case <-time.After(50 * time.Millisecond):
	}
}
