// Package store provides the map library: named memory-map documents that
// can be saved, listed, and reloaded across editing sessions.
//
// Two backends exist: a file library under ~/.config/regcraft/library for
// single-user CLI work, and a MongoDB library for teams sharing a common
// register-map collection. Both store the serialized YAML text verbatim; the
// library never interprets document contents.
package store

import (
	"context"
	"time"
)

// Entry describes one stored document.
type Entry struct {
	Name      string    `json:"name" bson:"name"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Library stores named memory-map documents.
type Library interface {
	// Save stores text under name, replacing any previous version.
	Save(ctx context.Context, name string, text []byte) error

	// Load returns the stored text. A missing name fails with a
	// NOT_FOUND-coded error.
	Load(ctx context.Context, name string) ([]byte, error)

	// List returns all entries sorted by name.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes a document. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases any backend resources.
	Close() error
}
