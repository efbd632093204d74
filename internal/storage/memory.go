package storage

import (
	"io/fs"
	"os"
	"sync"
	"time"
)

type memEntry struct {
	data    []byte
	mode    fs.FileMode
	modTime time.Time
}

// Memory keeps entries in process memory. The zero value is ready to use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memEntry
}

// NewMemory creates an empty in-memory storage
func NewMemory() *Memory {
	return &Memory{}
}

// Exists reports whether path has an entry
func (m *Memory) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[path]
	return ok, nil
}

// Write re-creates the entry for path with mode 0600
func (m *Memory) Write(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]*memEntry)
	}
	m.entries[path] = &memEntry{
		data:    append([]byte(nil), data...),
		mode:    FilePermDefault,
		modTime: time.Now(),
	}
	return nil
}

// Read returns a copy of the entry for path
func (m *Memory) Read(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup("read", path)
	if err != nil {
		return nil, err
	}
	if e.mode&0444 == 0 {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrPermission}
	}
	return append([]byte(nil), e.data...), nil
}

// SetPermissions records mode for the entry at path
func (m *Memory) SetPermissions(path string, mode os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup("chmod", path)
	if err != nil {
		return err
	}
	e.mode = mode.Perm()
	return nil
}

// Stat describes the entry at path
func (m *Memory) Stat(path string) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup("stat", path)
	if err != nil {
		return Info{}, err
	}
	return Info{Path: path, Size: int64(len(e.data)), Mode: e.mode, ModTime: e.modTime}, nil
}

func (m *Memory) lookup(op, path string) (*memEntry, error) {
	e, ok := m.entries[path]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	return e, nil
}
