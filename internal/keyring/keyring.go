// Package keyring keeps the stored hash in the OS keyring instead of a file.
package keyring

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/zalando/go-keyring"
)

const DefaultService = "hashguard"

// Storage stores each path as a secret of the given service
type Storage struct {
	service string
}

// New creates keyring storage for service
func New(service string) *Storage {
	if service == "" {
		service = DefaultService
	}
	return &Storage{service: service}
}

// Exists reports whether path has a keyring entry
func (s *Storage) Exists(path string) (bool, error) {
	_, err := keyring.Get(s.service, path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to query keyring: %w", err)
}

// Write replaces the keyring entry for path
func (s *Storage) Write(path string, data []byte) error {
	if err := keyring.Set(s.service, path, string(data)); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return nil
}

// Read returns the keyring entry for path
func (s *Storage) Read(path string) ([]byte, error) {
	secret, err := keyring.Get(s.service, path)
	if err != nil {
		return nil, s.translate("read", path, err)
	}
	return []byte(secret), nil
}

// SetPermissions checks that the entry exists. Access to keyring entries is
// governed by the OS keyring, so mode is not recorded.
func (s *Storage) SetPermissions(path string, _ os.FileMode) error {
	if _, err := keyring.Get(s.service, path); err != nil {
		return s.translate("chmod", path, err)
	}
	return nil
}

// Delete removes the keyring entry for path
func (s *Storage) Delete(path string) error {
	if err := keyring.Delete(s.service, path); err != nil {
		return s.translate("delete", path, err)
	}
	return nil
}

func (s *Storage) translate(op, path string, err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	return fmt.Errorf("keyring %s %s: %w", op, path, err)
}
