package document

import (
	"testing"

	"github.com/bleviet/regcraft/pkg/errors"
)

func testTree() map[string]any {
	return map[string]any{
		"name": "soc",
		"address_blocks": []any{
			map[string]any{
				"name": "ctrl",
				"registers": []any{
					map[string]any{"name": "status"},
				},
			},
		},
	}
}

func TestGetAtPath(t *testing.T) {
	tree := testTree()

	got, err := GetAtPath(tree, Path{"address_blocks", 0, "registers", 0, "name"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "status" {
		t.Errorf("got %v, want status", got)
	}

	if _, err := GetAtPath(tree, Path{}); err != nil {
		t.Errorf("empty path should return the root, got %v", err)
	}
}

func TestGetAtPathErrors(t *testing.T) {
	tree := testTree()
	tests := []struct {
		name string
		path Path
	}{
		{"missing key", Path{"missing"}},
		{"index out of range", Path{"address_blocks", 3}},
		{"negative index", Path{"address_blocks", -1}},
		{"key into slice", Path{"address_blocks", "name"}},
		{"index into map", Path{0}},
		{"through scalar", Path{"name", "deeper"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetAtPath(tree, tt.path)
			if errors.GetCode(err) != errors.ErrCodePathNotFound {
				t.Errorf("code = %v, want PATH_NOT_FOUND", errors.GetCode(err))
			}
		})
	}
}

func TestSetAtPath(t *testing.T) {
	tree := testTree()

	_, err := SetAtPath(tree, Path{"address_blocks", 0, "registers", 0, "name"}, "ctrl_status")
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, _ := GetAtPath(tree, Path{"address_blocks", 0, "registers", 0, "name"})
	if got != "ctrl_status" {
		t.Errorf("got %v after set, want ctrl_status", got)
	}
}

func TestSetAtPathCreatesMapKey(t *testing.T) {
	tree := testTree()

	if _, err := SetAtPath(tree, Path{"description"}, "top level"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if tree["description"] != "top level" {
		t.Error("new map key was not created")
	}
}

func TestSetAtPathAppendsAtLength(t *testing.T) {
	tree := testTree()

	// Writing exactly one past the end appends.
	root, err := SetAtPath(tree, Path{"address_blocks", 1}, map[string]any{"name": "dma"})
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	blocks, _ := GetAtPath(root, Path{"address_blocks"})
	if len(blocks.([]any)) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks.([]any)))
	}

	// Two past the end is out of range.
	if _, err := SetAtPath(tree, Path{"address_blocks", 5}, nil); errors.GetCode(err) != errors.ErrCodePathNotFound {
		t.Errorf("code = %v, want PATH_NOT_FOUND", errors.GetCode(err))
	}
}

func TestSetAtPathEmptyPath(t *testing.T) {
	_, err := SetAtPath(testTree(), Path{}, "x")
	if errors.GetCode(err) != errors.ErrCodeEmptyPath {
		t.Errorf("code = %v, want EMPTY_PATH", errors.GetCode(err))
	}
}

func TestDeleteAtPath(t *testing.T) {
	tree := testTree()

	root, err := DeleteAtPath(tree, Path{"address_blocks", 0})
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	blocks, _ := GetAtPath(root, Path{"address_blocks"})
	if len(blocks.([]any)) != 0 {
		t.Errorf("got %d blocks after delete, want 0", len(blocks.([]any)))
	}
}

func TestDeleteAtPathMissingKeyIsNoop(t *testing.T) {
	tree := testTree()
	if _, err := DeleteAtPath(tree, Path{"missing"}); err != nil {
		t.Errorf("deleting a missing key should be a no-op, got %v", err)
	}
}

func TestDeleteAtPathIndexOutOfRange(t *testing.T) {
	tree := testTree()
	_, err := DeleteAtPath(tree, Path{"address_blocks", 4})
	if errors.GetCode(err) != errors.ErrCodePathNotFound {
		t.Errorf("code = %v, want PATH_NOT_FOUND", errors.GetCode(err))
	}
}

func TestPathChildDoesNotShareStorage(t *testing.T) {
	base := Path{"address_blocks"}
	a := base.Child(0)
	b := base.Child(1)
	if a[1] != 0 || b[1] != 1 {
		t.Errorf("children alias each other: %v, %v", a, b)
	}
}
