package document

import (
	"gopkg.in/yaml.v3"

	"github.com/bleviet/regcraft/pkg/errors"
	"github.com/bleviet/regcraft/pkg/regmap"
)

// Document wraps the generic YAML tree of a memory-map file together with
// the resolved selection root. All editor mutations go through Apply/Remove
// so the tree stays the single source of truth for serialization.
type Document struct {
	tree any
	root Path
}

// Parse decodes YAML text into a Document and resolves the map root. Empty
// input yields a document with a fresh bare map object.
func Parse(text []byte) (*Document, error) {
	var tree any
	if err := yaml.Unmarshal(text, &tree); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse document")
	}
	if tree == nil {
		tree = map[string]any{"name": "memory_map", "address_blocks": []any{}}
	}
	root, err := ResolveRoot(tree)
	if err != nil {
		return nil, err
	}
	return &Document{tree: tree, root: root}, nil
}

// ResolveRoot determines the selection-root prefix for one of the three
// legal document shapes:
//
//   - a bare array: the map lives at index 0
//   - an object with a memory_maps array: the map lives at memory_maps[0]
//   - a bare map object: the map is the root itself
func ResolveRoot(tree any) (Path, error) {
	switch t := tree.(type) {
	case []any:
		if len(t) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidDocument,
				"document is an empty array, expected a memory map at index 0")
		}
		return Path{0}, nil
	case map[string]any:
		if maps, ok := t["memory_maps"].([]any); ok {
			if len(maps) == 0 {
				return nil, errors.New(errors.ErrCodeInvalidDocument,
					"memory_maps array is empty")
			}
			return Path{"memory_maps", 0}, nil
		}
		return Path{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidDocument,
		"document root is %T, expected a mapping or an array", tree)
}

// Dump serializes the tree back to YAML text.
func (d *Document) Dump() ([]byte, error) {
	data, err := yaml.Marshal(d.tree)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize document")
	}
	return data, nil
}

// RootPath returns the selection-root prefix resolved at parse time.
func (d *Document) RootPath() Path { return d.root }

// Tree returns the raw document tree.
func (d *Document) Tree() any { return d.tree }

// Get resolves a path relative to the map root.
func (d *Document) Get(path Path) (any, error) {
	return GetAtPath(d.tree, d.root.Child(path...))
}

// Apply writes value at a path relative to the map root.
func (d *Document) Apply(path Path, value any) error {
	tree, err := SetAtPath(d.tree, d.root.Child(path...), value)
	if err != nil {
		return err
	}
	d.tree = tree
	return nil
}

// Remove deletes the node at a path relative to the map root.
func (d *Document) Remove(path Path) error {
	tree, err := DeleteAtPath(d.tree, d.root.Child(path...))
	if err != nil {
		return err
	}
	d.tree = tree
	return nil
}

// Map decodes the memory map under the selection root into the typed model.
func (d *Document) Map() (*regmap.MemoryMap, error) {
	node, err := GetAtPath(d.tree, d.root)
	if err != nil {
		return nil, err
	}
	return regmap.FromTree(node)
}

// SetMap re-encodes the whole typed model under the selection root,
// regenerating every derived string (bits ranges) in the tree.
func (d *Document) SetMap(m *regmap.MemoryMap) error {
	node := regmap.ToTree(m)
	if len(d.root) == 0 {
		d.tree = node
		return nil
	}
	tree, err := SetAtPath(d.tree, d.root, node)
	if err != nil {
		return err
	}
	d.tree = tree
	return nil
}
