package querystate

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes the shared query string. The controller receives
// one of these instead of touching any ambient global, so it can be tested
// without a real environment.
type Store interface {
	Get() (url.Values, error)
	Set(url.Values) error
}

// MemStore holds the query string in memory. Zero value is usable.
type MemStore struct {
	raw string
}

// NewMemStore creates a MemStore seeded with a raw query string.
// Malformed input is treated as empty.
func NewMemStore(raw string) *MemStore {
	return &MemStore{raw: raw}
}

func (m *MemStore) Get() (url.Values, error) {
	q, err := url.ParseQuery(m.raw)
	if err != nil {
		return url.Values{}, nil
	}
	return q, nil
}

func (m *MemStore) Set(q url.Values) error {
	m.raw = q.Encode()
	return nil
}

// Raw returns the current encoded query string.
func (m *MemStore) Raw() string { return m.raw }

// FileStore persists the query string as a single line of text so the last
// view is restored on the next launch. Writes are atomic (temp file +
// rename) because another process may read the file at any time.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path, creating parent directories.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Get() (url.Values, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return url.Values{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read query state: %w", err)
	}
	q, err := url.ParseQuery(strings.TrimSpace(string(data)))
	if err != nil {
		// Hand-edited garbage decays to the unfiltered view.
		return url.Values{}, nil
	}
	return q, nil
}

func (f *FileStore) Set(q url.Values) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(q.Encode()+"\n"), 0644); err != nil {
		return fmt.Errorf("write query state: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace query state: %w", err)
	}
	return nil
}
