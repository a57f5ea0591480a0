package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const messyDoc = `name: soc
address_blocks:
  - name: ctrl
    base_address: 16
    registers:
      - name: status
        fields:
          - name: ready
            bit_offset: 3
            bit_width: 1
            bits: "[03:3]"
`

func TestFmtCommandCanonicalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(path, []byte(messyDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newFmtCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("fmt: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, `"[3]"`) && !strings.Contains(got, `bits: '[3]'`) && !strings.Contains(got, "bits: '[3]'") {
		t.Errorf("bits not canonicalized:\n%s", got)
	}
	if strings.Contains(got, "[03:3]") {
		t.Errorf("stale range notation survived:\n%s", got)
	}

	// Source file untouched without -w.
	onDisk, _ := os.ReadFile(path)
	if string(onDisk) != messyDoc {
		t.Error("fmt without -w modified the file")
	}
}

func TestFmtCommandWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(path, []byte(messyDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newFmtCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"-w", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("fmt -w: %v", err)
	}

	onDisk, _ := os.ReadFile(path)
	if strings.Contains(string(onDisk), "[03:3]") {
		t.Errorf("file not rewritten:\n%s", onDisk)
	}
}
