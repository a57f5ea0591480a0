// Package session implements the editing session: the stateful layer between
// the UI (TUI bit grid, host bridge) and the pure layout algorithms.
//
// A Session owns the parsed document, applies structural edits through the
// layout package, and commits every successful edit the same way: re-encode
// the touched collection into the document tree, serialize, debounce-push the
// text to the injected host, and refresh the crash-recovery snapshot. Edits
// are all-or-nothing; a failed edit leaves the document untouched and returns
// the structured error for inline display.
//
// # Architecture
//
// The session is single-threaded by design: it is driven from the UI event
// loop and never starts goroutines of its own (the push debounce timer is the
// one exception, confined to the Pusher). The host channel is injected at
// construction - there is no process-wide host singleton.
//
// # Usage
//
//	sess, err := session.New(text, session.Options{
//	    Host: document.HostFunc(func(text string) { /* deliver */ }),
//	})
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	idx, err := sess.InsertField(0, 0, 2, session.After)
//	if err != nil {
//	    // show errors.UserMessage(err) inline
//	}
package session

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/bleviet/regcraft/pkg/document"
	"github.com/bleviet/regcraft/pkg/regmap"
	"github.com/bleviet/regcraft/pkg/snapshot"
)

// DefaultAddressLimit bounds block repacking when the document does not
// declare an address-space size: a 32-bit address space.
const DefaultAddressLimit = uint64(1) << 32

// Placement selects which side of the selected element an insertion lands on.
type Placement int

const (
	// After inserts immediately above/after the selected element.
	After Placement = iota
	// Before inserts immediately below/before the selected element.
	Before
)

// Options configures a Session.
type Options struct {
	// Host receives debounced document pushes. Required.
	Host document.Host

	// Logger defaults to log.Default().
	Logger *log.Logger

	// Snapshots stores crash-recovery copies. Defaults to a NullStore.
	Snapshots snapshot.Store

	// DocID identifies the document in the snapshot store. Defaults to a
	// fresh UUID, which effectively scopes snapshots to this session.
	DocID string

	// PushDelay overrides the host push debounce window.
	PushDelay time.Duration

	// AddressLimit bounds address-block layout. Defaults to a 32-bit space.
	AddressLimit uint64
}

// Session is one editing session over one document.
type Session struct {
	id     string
	docID  string
	doc    *document.Document
	pusher *document.Pusher
	snaps  snapshot.Store
	logger *log.Logger
	limit  uint64
}

// New parses text and opens a session over it.
func New(text []byte, opts Options) (*Session, error) {
	doc, err := document.Parse(text)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	snaps := opts.Snapshots
	if snaps == nil {
		snaps = snapshot.NewNullStore()
	}
	docID := opts.DocID
	if docID == "" {
		docID = uuid.NewString()
	}
	limit := opts.AddressLimit
	if limit == 0 {
		limit = DefaultAddressLimit
	}

	s := &Session{
		id:     uuid.NewString(),
		docID:  docID,
		doc:    doc,
		pusher: document.NewPusher(opts.Host, opts.PushDelay),
		snaps:  snaps,
		logger: logger,
		limit:  limit,
	}
	s.logger.Debug("session opened", "session", s.id, "doc", s.docID)
	return s, nil
}

// Document exposes the underlying document for read-only inspection.
func (s *Session) Document() *document.Document { return s.doc }

// Map decodes the current memory map.
func (s *Session) Map() (*regmap.MemoryMap, error) { return s.doc.Map() }

// Text serializes the current document.
func (s *Session) Text() ([]byte, error) { return s.doc.Dump() }

// Flush forces any pending host push out immediately.
func (s *Session) Flush() { s.pusher.Flush() }

// Close flushes pending pushes and drops the session's snapshot interest.
// The snapshot itself is kept until its TTL so a crash shortly after close
// can still recover.
func (s *Session) Close() {
	s.pusher.Flush()
	s.logger.Debug("session closed", "session", s.id)
}

// commit serializes the document, pushes it to the host, and refreshes the
// recovery snapshot. Called after every successful structural edit.
func (s *Session) commit(op string) error {
	text, err := s.doc.Dump()
	if err != nil {
		return err
	}
	s.pusher.Push(string(text))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.snaps.Set(ctx, snapshot.Key(s.docID), text, snapshot.DefaultTTL); err != nil {
		// Snapshots are best-effort; the edit itself already succeeded.
		s.logger.Warn("snapshot write failed", "doc", s.docID, "err", err)
	}

	s.logger.Debug("committed", "op", op, "bytes", len(text))
	return nil
}
