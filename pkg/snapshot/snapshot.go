// Package snapshot stores crash-recovery copies of working documents.
//
// While a document is being edited, the session periodically writes the
// serialized text here under the document's stable ID. If the editor dies
// before the host acknowledged the last push, the next session can offer the
// snapshot for recovery. Entries expire on a TTL so abandoned documents do
// not accumulate.
//
// Three backends are provided:
//   - file: JSON files under a local directory (the CLI default)
//   - redis: shared store for multi-host editing setups
//   - null: disabled snapshots, for tests and --no-snapshot runs
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultTTL is how long a snapshot outlives its last write.
const DefaultTTL = 72 * time.Hour

// Store is the snapshot storage interface.
type Store interface {
	// Get retrieves a snapshot. The bool reports whether it existed.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a snapshot with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a snapshot. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}

// Key derives the storage key for a document ID. IDs are hashed so arbitrary
// file paths and URIs become safe, fixed-length keys in every backend.
func Key(docID string) string {
	sum := sha256.Sum256([]byte(docID))
	return "regcraft:doc:" + hex.EncodeToString(sum[:])
}
