package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bleviet/regcraft/pkg/errors"
)

// FileLibrary is a file-based map library. Documents are stored as YAML
// files in a single directory, one file per name.
type FileLibrary struct {
	mu  sync.RWMutex
	dir string
}

// NewFileLibrary creates a file-based library.
// If dir is empty, defaults to ~/.config/regcraft/library.
func NewFileLibrary(dir string) (*FileLibrary, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "get home dir")
		}
		dir = filepath.Join(home, ".config", "regcraft", "library")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create library dir")
	}
	return &FileLibrary{dir: dir}, nil
}

func (l *FileLibrary) docPath(name string) string {
	return filepath.Join(l.dir, name+".yaml")
}

// Save stores text under name.
func (l *FileLibrary) Save(ctx context.Context, name string, text []byte) error {
	if err := errors.ValidateEntityName(name); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.WriteFile(l.docPath(name), text, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write document %q", name)
	}
	return nil
}

// Load returns the stored text for name.
func (l *FileLibrary) Load(ctx context.Context, name string) ([]byte, error) {
	if err := errors.ValidateEntityName(name); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	data, err := os.ReadFile(l.docPath(name))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "document %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read document %q", name)
	}
	return data, nil
}

// List returns all entries sorted by name.
func (l *FileLibrary) List(ctx context.Context) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	dirents, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read library dir")
	}

	var entries []Entry
	for _, de := range dirents {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".yaml") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:      strings.TrimSuffix(de.Name(), ".yaml"),
			UpdatedAt: info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Delete removes a document.
func (l *FileLibrary) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateEntityName(name); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.Remove(l.docPath(name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "remove document %q", name)
	}
	return nil
}

// Close does nothing for the file library.
func (l *FileLibrary) Close() error { return nil }

// Ensure FileLibrary implements Library.
var _ Library = (*FileLibrary)(nil)
