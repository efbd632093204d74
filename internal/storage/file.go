package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/illarion/hashguard/internal/security"
)

// File stores entries as regular files inside a root directory.
type File struct {
	validator *security.PathValidator
}

// OpenFile opens file storage rooted at dir
func OpenFile(dir string) (*File, error) {
	validator, err := security.New(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage directory: %w", err)
	}
	return &File{validator: validator}, nil
}

// Close releases the root directory handle
func (f *File) Close() error {
	return f.validator.Close()
}

// Dir returns the absolute root directory
func (f *File) Dir() string {
	return f.validator.RootPath()
}

// Exists reports whether path exists
func (f *File) Exists(path string) (bool, error) {
	_, err := f.validator.StatInRoot(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Write replaces path with data
func (f *File) Write(path string, data []byte) error {
	return f.validator.ReplaceFileInRoot(path, data, FilePermDefault)
}

// Read returns the content of path
func (f *File) Read(path string) ([]byte, error) {
	return f.validator.ReadFileInRoot(path)
}

// SetPermissions changes the mode of path
func (f *File) SetPermissions(path string, mode os.FileMode) error {
	return f.validator.ChmodInRoot(path, mode)
}

// Stat describes path
func (f *File) Stat(path string) (Info, error) {
	fi, err := f.validator.StatInRoot(path)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Path:    path,
		Size:    fi.Size(),
		Mode:    fi.Mode().Perm(),
		ModTime: fi.ModTime(),
	}, nil
}
