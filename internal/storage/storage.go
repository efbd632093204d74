package storage

import (
	"io/fs"
	"time"
)

// FilePermDefault is the mode of a freshly written entry
const FilePermDefault fs.FileMode = 0600

// Info describes a stored entry
type Info struct {
	Path    string
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
}

// Stater is implemented by backends that can describe an entry without
// reading it.
type Stater interface {
	Stat(path string) (Info, error)
}
