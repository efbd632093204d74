package security

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/illarion/hashguard/internal/crypto"
)

var (
	ErrPathEscapes  = errors.New("path escapes root directory")
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
	ErrEmptyPath    = errors.New("empty path not allowed")
)

// PathValidator confines file operations to a root directory using os.Root.
type PathValidator struct {
	root     *os.Root
	rootPath string
}

// New creates a new PathValidator rooted at dir.
func New(dir string) (*PathValidator, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory: %w", err)
	}

	return &PathValidator{
		root:     root,
		rootPath: absPath,
	}, nil
}

// Close releases the root directory handle.
func (pv *PathValidator) Close() error {
	if pv.root != nil {
		return pv.root.Close()
	}
	return nil
}

// RootPath returns the absolute path of the root directory.
func (pv *PathValidator) RootPath() string {
	return pv.rootPath
}

// ValidateAndNormalize validates a user-provided path and returns it as a
// slash-separated path relative to the root. It rejects:
// - Empty paths
// - Absolute paths
// - Paths that escape the root (using ..)
// - Windows reserved names (CON, NUL, etc.)
func (pv *PathValidator) ValidateAndNormalize(userPath string) (string, error) {
	if userPath == "" {
		return "", ErrEmptyPath
	}

	if !filepath.IsLocal(userPath) {
		if filepath.IsAbs(userPath) {
			return "", fmt.Errorf("%w: %s", ErrAbsolutePath, userPath)
		}
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	cleanPath := filepath.Clean(userPath)
	relPath, err := filepath.Rel(pv.rootPath, filepath.Join(pv.rootPath, cleanPath))
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}
	if strings.HasPrefix(relPath, "..") || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	return filepath.ToSlash(relPath), nil
}

func (pv *PathValidator) platformPath(path string) (string, error) {
	platformPath := filepath.FromSlash(path)
	if _, err := pv.ValidateAndNormalize(platformPath); err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return platformPath, nil
}

// ReadFileInRoot reads a file within the root.
func (pv *PathValidator) ReadFileInRoot(path string) ([]byte, error) {
	platformPath, err := pv.platformPath(path)
	if err != nil {
		return nil, err
	}
	return pv.root.ReadFile(platformPath)
}

// StatInRoot stats a file within the root.
func (pv *PathValidator) StatInRoot(path string) (os.FileInfo, error) {
	platformPath, err := pv.platformPath(path)
	if err != nil {
		return nil, err
	}
	return pv.root.Stat(platformPath)
}

// ChmodInRoot changes the mode of a file within the root. The file does not
// need to be writable.
func (pv *PathValidator) ChmodInRoot(path string, mode os.FileMode) error {
	platformPath, err := pv.platformPath(path)
	if err != nil {
		return err
	}
	return pv.root.Chmod(platformPath, mode)
}

// RemoveInRoot removes a file within the root.
func (pv *PathValidator) RemoveInRoot(path string) error {
	platformPath, err := pv.platformPath(path)
	if err != nil {
		return err
	}
	return pv.root.Remove(platformPath)
}

// ReplaceFileInRoot writes data to a temporary file next to path and renames
// it over path. The previous file may be read-only; it is replaced, not
// written to. Readers observe either the old or the new content.
func (pv *PathValidator) ReplaceFileInRoot(path string, data []byte, perm os.FileMode) error {
	platformPath, err := pv.platformPath(path)
	if err != nil {
		return err
	}

	suffix, err := crypto.GenerateRandom(6)
	if err != nil {
		return err
	}
	tmpPath := platformPath + ".tmp-" + hex.EncodeToString(suffix)

	f, err := pv.root.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		pv.root.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		pv.root.Remove(tmpPath)
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		pv.root.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := pv.root.Rename(tmpPath, platformPath); err != nil {
		// Windows refuses to replace a read-only target.
		if chmodErr := pv.root.Chmod(platformPath, perm); chmodErr != nil && !errors.Is(chmodErr, fs.ErrNotExist) {
			pv.root.Remove(tmpPath)
			return fmt.Errorf("failed to replace %s: %w", path, err)
		}
		if err := pv.root.Rename(tmpPath, platformPath); err != nil {
			pv.root.Remove(tmpPath)
			return fmt.Errorf("failed to replace %s: %w", path, err)
		}
	}

	return nil
}
