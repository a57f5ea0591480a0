package document

import (
	"github.com/bleviet/regcraft/pkg/errors"
)

// Path addresses a node in the document tree. Each segment is either a
// string (map key) or an int (slice index).
type Path []any

// Child returns path extended by the given segments without sharing backing
// storage with the receiver.
func (p Path) Child(segments ...any) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)
	out = append(out, segments...)
	return out
}

// GetAtPath resolves path inside root and returns the addressed node.
// Traversing through a missing or mistyped intermediate fails with
// PATH_NOT_FOUND naming the offending segment.
func GetAtPath(root any, path Path) (any, error) {
	node := root
	for _, seg := range path {
		child, err := childOf(node, seg)
		if err != nil {
			return nil, err
		}
		node = child
	}
	return node, nil
}

// SetAtPath writes value at path inside root and returns the (possibly new)
// root. Map keys are created on write; slice indices must be in range or
// exactly one past the end, which appends. A zero-length path is a
// programming error.
func SetAtPath(root any, path Path, value any) (any, error) {
	if len(path) == 0 {
		return root, errors.New(errors.ErrCodeEmptyPath, "Cannot set empty path")
	}
	return setRec(root, path, value)
}

func setRec(node any, path Path, value any) (any, error) {
	seg := path[0]
	if len(path) == 1 {
		switch s := seg.(type) {
		case string:
			m, ok := node.(map[string]any)
			if !ok {
				return nil, notFound(seg)
			}
			m[s] = value
			return m, nil
		case int:
			arr, ok := node.([]any)
			if !ok || s < 0 || s > len(arr) {
				return nil, notFound(seg)
			}
			if s == len(arr) {
				return append(arr, value), nil
			}
			arr[s] = value
			return arr, nil
		}
		return nil, notFound(seg)
	}

	child, err := childOf(node, seg)
	if err != nil {
		return nil, err
	}
	newChild, err := setRec(child, path[1:], value)
	if err != nil {
		return nil, err
	}
	return replaceChild(node, seg, newChild)
}

// DeleteAtPath removes the node at path and returns the (possibly new) root.
// Deleting a missing map key is a no-op; a slice index must be in range.
func DeleteAtPath(root any, path Path) (any, error) {
	if len(path) == 0 {
		return root, errors.New(errors.ErrCodeEmptyPath, "Cannot delete empty path")
	}
	return deleteRec(root, path)
}

func deleteRec(node any, path Path) (any, error) {
	seg := path[0]
	if len(path) == 1 {
		switch s := seg.(type) {
		case string:
			m, ok := node.(map[string]any)
			if !ok {
				return nil, notFound(seg)
			}
			delete(m, s)
			return m, nil
		case int:
			arr, ok := node.([]any)
			if !ok || s < 0 || s >= len(arr) {
				return nil, notFound(seg)
			}
			out := make([]any, 0, len(arr)-1)
			out = append(out, arr[:s]...)
			out = append(out, arr[s+1:]...)
			return out, nil
		}
		return nil, notFound(seg)
	}

	child, err := childOf(node, seg)
	if err != nil {
		return nil, err
	}
	newChild, err := deleteRec(child, path[1:])
	if err != nil {
		return nil, err
	}
	return replaceChild(node, seg, newChild)
}

func childOf(node any, seg any) (any, error) {
	switch s := seg.(type) {
	case string:
		m, ok := node.(map[string]any)
		if !ok {
			return nil, notFound(seg)
		}
		child, ok := m[s]
		if !ok {
			return nil, notFound(seg)
		}
		return child, nil
	case int:
		arr, ok := node.([]any)
		if !ok || s < 0 || s >= len(arr) {
			return nil, notFound(seg)
		}
		return arr[s], nil
	}
	return nil, notFound(seg)
}

func replaceChild(node any, seg any, child any) (any, error) {
	switch s := seg.(type) {
	case string:
		m := node.(map[string]any)
		m[s] = child
		return m, nil
	case int:
		arr := node.([]any)
		arr[s] = child
		return arr, nil
	}
	return nil, notFound(seg)
}

func notFound(seg any) error {
	return errors.New(errors.ErrCodePathNotFound, "Path not found at %v", seg)
}
