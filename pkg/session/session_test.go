package session

import (
	"strings"
	"testing"

	"github.com/bleviet/regcraft/pkg/document"
	"github.com/bleviet/regcraft/pkg/errors"
	"github.com/bleviet/regcraft/pkg/gesture"
)

const testDoc = `name: soc
address_blocks:
  - name: ctrl
    base_address: 0x0
    registers:
      - name: status
        address_offset: 0x0
        fields:
          - name: ready
            bit_offset: 0
            bit_width: 1
          - name: error
            bit_offset: 1
            bit_width: 2
`

func newTestSession(t *testing.T, text string) (*Session, *[]string) {
	t.Helper()
	var pushed []string
	sess, err := New([]byte(text), Options{
		Host: document.HostFunc(func(text string) { pushed = append(pushed, text) }),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess, &pushed
}

func TestInsertFieldAfterSelection(t *testing.T) {
	sess, _ := newTestSession(t, testDoc)

	idx, err := sess.InsertField(0, 0, 1, After)
	if err != nil {
		t.Fatalf("InsertField: %v", err)
	}
	fields, _, err := sess.Fields(0, 0)
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(fields))
	}
	f := fields[idx]
	if f.Name != "field1" {
		t.Errorf("name = %q, want %q", f.Name, "field1")
	}
	if f.Lo() != 3 || f.BitWidth != 1 {
		t.Errorf("position = [%d], width %d, want [3], width 1", f.Lo(), f.BitWidth)
	}
}

func TestInsertFieldBeforeAtBitZero(t *testing.T) {
	sess, _ := newTestSession(t, testDoc)

	before, _, _ := sess.Fields(0, 0)
	_, err := sess.InsertField(0, 0, 0, Before)
	if errors.GetCode(err) != errors.ErrCodeOutOfBounds {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeOutOfBounds)
	}
	after, _, _ := sess.Fields(0, 0)
	if len(after) != len(before) {
		t.Errorf("document changed on failed insert: %d fields, want %d", len(after), len(before))
	}
}

func TestInsertIntoEmptyDocument(t *testing.T) {
	sess, _ := newTestSession(t, "")

	bi, err := sess.InsertBlock(-1, After)
	if err != nil {
		t.Fatalf("InsertBlock: %v", err)
	}
	ri, err := sess.InsertRegister(bi, -1, After)
	if err != nil {
		t.Fatalf("InsertRegister: %v", err)
	}
	fi, err := sess.InsertField(bi, ri, -1, After)
	if err != nil {
		t.Fatalf("InsertField: %v", err)
	}

	blocks, err := sess.Blocks()
	if err != nil {
		t.Fatalf("Blocks: %v", err)
	}
	if blocks[bi].Name != "block1" {
		t.Errorf("block name = %q, want %q", blocks[bi].Name, "block1")
	}
	fields, _, _ := sess.Fields(bi, ri)
	if fields[fi].Name != "field1" || fields[fi].Lo() != 0 {
		t.Errorf("field = %q at bit %d, want field1 at bit 0", fields[fi].Name, fields[fi].Lo())
	}
}

func TestInsertRegisterGrowsDerivedBlock(t *testing.T) {
	sess, _ := newTestSession(t, testDoc)

	idx, err := sess.InsertRegister(0, 0, After)
	if err != nil {
		t.Fatalf("InsertRegister: %v", err)
	}
	regs, err := sess.Registers(0)
	if err != nil {
		t.Fatalf("Registers: %v", err)
	}
	if len(regs) != 2 {
		t.Fatalf("got %d registers, want 2", len(regs))
	}
	if regs[idx].Offset() != 4 {
		t.Errorf("offset = %d, want 4", regs[idx].Offset())
	}
}

func TestDeleteFieldLeavesGap(t *testing.T) {
	sess, _ := newTestSession(t, testDoc)

	if err := sess.DeleteField(0, 0, 0); err != nil {
		t.Fatalf("DeleteField: %v", err)
	}
	fields, _, _ := sess.Fields(0, 0)
	if len(fields) != 1 {
		t.Fatalf("got %d fields, want 1", len(fields))
	}
	if fields[0].Lo() != 1 {
		t.Errorf("survivor moved to bit %d, want 1", fields[0].Lo())
	}
}

func TestResizeFieldRejectsCollision(t *testing.T) {
	sess, _ := newTestSession(t, testDoc)

	err := sess.ResizeField(0, 0, 0, 1, 0)
	if errors.GetCode(err) != errors.ErrCodeCollision {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeCollision)
	}
	if err := sess.ResizeField(0, 0, 1, 4, 1); err != nil {
		t.Fatalf("ResizeField: %v", err)
	}
	fields, _, _ := sess.Fields(0, 0)
	if fields[1].Range() != "[4:1]" {
		t.Errorf("range = %q, want %q", fields[1].Range(), "[4:1]")
	}
}

func TestApplyFieldRangesAtomic(t *testing.T) {
	sess, _ := newTestSession(t, testDoc)

	// One bad update poisons the whole batch.
	err := sess.ApplyFieldRanges(0, 0, []gesture.FieldRange{
		{FieldIndex: 0, Hi: 2, Lo: 2},
		{FieldIndex: 1, Hi: 99, Lo: 98},
	})
	if errors.GetCode(err) != errors.ErrCodeInvalidRange {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidRange)
	}
	fields, _, _ := sess.Fields(0, 0)
	if fields[0].Lo() != 0 {
		t.Errorf("field moved on failed batch: bit %d, want 0", fields[0].Lo())
	}

	err = sess.ApplyFieldRanges(0, 0, []gesture.FieldRange{
		{FieldIndex: 0, Hi: 2, Lo: 2},
		{FieldIndex: 1, Hi: 1, Lo: 0},
	})
	if err != nil {
		t.Fatalf("ApplyFieldRanges: %v", err)
	}
	fields, _, _ = sess.Fields(0, 0)
	if fields[0].Name != "error" || fields[1].Name != "ready" {
		t.Errorf("order = %q, %q, want error, ready", fields[0].Name, fields[1].Name)
	}
}

func TestCommitRowCanonicalizesBits(t *testing.T) {
	sess, _ := newTestSession(t, testDoc)

	d := RowDraft{Name: "ready", Bits: "[ 3 : 3 ]", Reset: "0x1"}
	if err := sess.CommitRow(0, 0, 0, &d); err != nil {
		t.Fatalf("CommitRow: %v", err)
	}
	fields, _, _ := sess.Fields(0, 0)
	var found bool
	for _, f := range fields {
		if f.Name == "ready" {
			found = true
			if f.Bits != "[3]" {
				t.Errorf("bits = %q, want %q", f.Bits, "[3]")
			}
			if f.ResetValue == nil || *f.ResetValue != 1 {
				t.Errorf("reset = %v, want 1", f.ResetValue)
			}
		}
	}
	if !found {
		t.Fatal("field ready missing after commit")
	}
}

func TestRowDraftValidation(t *testing.T) {
	sess, _ := newTestSession(t, testDoc)
	fields, _, _ := sess.Fields(0, 0)

	tests := []struct {
		name  string
		draft RowDraft
		code  errors.Code
	}{
		{"duplicate name", RowDraft{Name: "error", Bits: "[0]"}, errors.ErrCodeInvalidName},
		{"bad range syntax", RowDraft{Name: "ready", Bits: "bits 3..0"}, errors.ErrCodeInvalidRange},
		{"out of bounds", RowDraft{Name: "ready", Bits: "[40:32]"}, errors.ErrCodeOutOfBounds},
		{"collision", RowDraft{Name: "ready", Bits: "[2:1]"}, errors.ErrCodeCollision},
		{"bad reset", RowDraft{Name: "ready", Bits: "[0]", Reset: "zz"}, errors.ErrCodeInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.draft
			if d.Validate(fields, 0, 32) {
				t.Fatal("draft validated, want failure")
			}
			if errors.GetCode(d.Errs[0]) != tt.code {
				t.Errorf("code = %v, want %v", errors.GetCode(d.Errs[0]), tt.code)
			}
		})
	}
}

func TestCommitPushesToHost(t *testing.T) {
	sess, pushed := newTestSession(t, testDoc)

	if _, err := sess.InsertField(0, 0, 1, After); err != nil {
		t.Fatalf("InsertField: %v", err)
	}
	sess.Flush()
	if len(*pushed) == 0 {
		t.Fatal("no host push after commit")
	}
	if !strings.Contains((*pushed)[0], "field1") {
		t.Errorf("pushed text missing new field:\n%s", (*pushed)[0])
	}
}
