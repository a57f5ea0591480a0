// Package document maintains the structured YAML document backing a memory
// map and the generic path operations the editor layer uses to modify it.
//
// The document is held as the generic tree the YAML decoder produces
// (map[string]any and []any nodes). The editor addresses nodes with paths of
// string keys and integer indices, applied relative to the resolved map root:
//
//	doc.Apply(document.Path{"address_blocks", 0, "registers"}, newRegisters)
//
// Three legal root shapes are recognized: a bare array with the map at index
// 0, an object carrying a memory_maps array, and a bare map object. ResolveRoot
// picks the prefix once at load time; see RootPath.
//
// Path errors ("Path not found at ...", "Cannot set empty path") indicate a
// programming error in path construction, not a user-data condition, and are
// returned as INTERNAL-class coded errors rather than being swallowed.
//
// Serialization back to the host is a synchronous handoff of an immutable
// text value; Pusher adds the debounce the host protocol expects.
package document
