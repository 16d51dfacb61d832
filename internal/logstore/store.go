// Package logstore persists raw alert text as flat files, one per entry,
// named by an opaque server-generated identifier.
package logstore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/red-maple-labs/proxherald/internal/metrics"
)

// Sentinel errors for lookup failures. Storage write faults are wrapped
// I/O errors, kept distinct so callers can tell a local disk fault from
// a bad identifier.
var (
	// ErrNotFound means the identifier is well-formed but no entry exists.
	ErrNotFound = errors.New("log entry not found")
	// ErrInvalidID means the identifier is malformed or resolves outside
	// the log directory.
	ErrInvalidID = errors.New("invalid log entry ID")
)

// idPattern is the only shape of identifier accepted on lookup.
// Identifiers are generated server-side; anything else is rejected before
// touching the filesystem.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const fileSuffix = ".log"

// Entry describes one stored log file. Age is derived from the file's
// modification time; entries are write-once so it matches creation time.
type Entry struct {
	ID      string
	ModTime time.Time
	Size    int64
}

// Store is an append-only file store for raw alert text.
type Store struct {
	dir string // canonical absolute path of the log directory
}

// New creates the log directory if absent and returns a store rooted at
// its canonical path.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("log directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve log directory: %w", err)
	}
	canonical, err = filepath.Abs(canonical)
	if err != nil {
		return nil, fmt.Errorf("resolve log directory: %w", err)
	}
	return &Store{dir: canonical}, nil
}

// Dir returns the canonical log directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Persist writes text verbatim as UTF-8 under a freshly generated
// identifier and returns that identifier.
func (s *Store) Persist(text string) (string, error) {
	id := newID()
	path := filepath.Join(s.dir, id+fileSuffix)
	if err := os.WriteFile(path, []byte(text), 0640); err != nil {
		metrics.LogWriteErrors.Inc()
		return "", fmt.Errorf("write log entry: %w", err)
	}
	metrics.LogEntriesWritten.Inc()
	metrics.LogBytesWritten.Add(float64(len(text)))
	return id, nil
}

// Fetch returns the full text of one entry. The identifier is checked
// lexically and the resolved path is verified to still sit inside the log
// directory, defending against traversal and symlink tricks. A concurrent
// delete surfaces as ErrNotFound, never a lower-level I/O error.
func (s *Store) Fetch(id string) (string, error) {
	path, err := s.entryPath(id)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if !s.contains(resolved) {
		return "", fmt.Errorf("%w: resolves outside log directory", ErrInvalidID)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read log entry: %w", err)
	}
	metrics.LogEntriesFetched.Inc()
	return string(data), nil
}

// List enumerates current entries with their filesystem metadata. Used by
// the retention sweeper; unreadable entries are skipped.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list log directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileSuffix) {
			continue
		}
		id := strings.TrimSuffix(de.Name(), fileSuffix)
		if !idPattern.MatchString(id) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Entry may have been deleted between ReadDir and Info.
			continue
		}
		entries = append(entries, Entry{
			ID:      id,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	return entries, nil
}

// Delete removes one entry. Deleting an absent entry returns ErrNotFound.
func (s *Store) Delete(id string) error {
	path, err := s.entryPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete log entry: %w", err)
	}
	return nil
}

// entryPath validates id lexically and joins it under the log directory.
func (s *Store) entryPath(id string) (string, error) {
	if id == "" || !idPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	path := filepath.Join(s.dir, id+fileSuffix)
	if !s.contains(path) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return path, nil
}

// contains reports whether path sits inside the canonical log directory.
func (s *Store) contains(path string) bool {
	return path == s.dir || strings.HasPrefix(path, s.dir+string(filepath.Separator))
}

// newID generates a 128-bit random identifier, hex-encoded.
func newID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
