package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/illarion/hashguard/internal/crypto"
	"github.com/illarion/hashguard/internal/storage"
)

const (
	HashFile     = "password_hash.txt"
	HashFileMode = 0444 // read-only for owner, group and other
)

var (
	ErrFileRead    = errors.New("failed to read hash file")
	ErrInvalidHash = errors.New("file contains an invalid hash")
)

// Hasher produces and checks self-describing password hashes.
// Verify returns false, not an error, when the secret does not match.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(hash, secret string) (bool, error)
}

// Storage provides byte-level access to named entries.
type Storage interface {
	Exists(path string) (bool, error)
	Write(path string, data []byte) error
	Read(path string) ([]byte, error)
	SetPermissions(path string, mode os.FileMode) error
}

// Manager stores and verifies the single password hash. It keeps no state
// besides its collaborators.
type Manager struct {
	hasher  Hasher
	storage Storage
}

// New creates a Manager over the given hasher and storage
func New(hasher Hasher, storage Storage) *Manager {
	return &Manager{
		hasher:  hasher,
		storage: storage,
	}
}

// NewDefault creates a Manager that hashes with Argon2id and keeps the hash
// file in dir. Call Close when done.
func NewDefault(dir string) (*Manager, error) {
	registry, err := crypto.NewDefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to create hasher: %w", err)
	}

	files, err := storage.OpenFile(dir)
	if err != nil {
		return nil, err
	}

	return New(registry, files), nil
}

// Close closes the storage if it holds resources
func (m *Manager) Close() error {
	if c, ok := m.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Hasher returns the hasher the manager was built with
func (m *Manager) Hasher() Hasher {
	return m.hasher
}

// Storage returns the storage the manager was built with
func (m *Manager) Storage() Storage {
	return m.storage
}

// Save hashes secret and replaces the stored hash with it, then makes the
// file read-only. An existing hash is overwritten without confirmation.
func (m *Manager) Save(secret string) error {
	hash, err := m.hasher.Hash(secret)
	if err != nil {
		return err
	}

	if err := m.storage.Write(HashFile, []byte(hash)); err != nil {
		return fmt.Errorf("failed to write hash file: %w", err)
	}

	if err := m.storage.SetPermissions(HashFile, HashFileMode); err != nil {
		return fmt.Errorf("failed to set hash file permissions: %w", err)
	}

	return nil
}

// HashFileExists reports whether a hash has been saved
func (m *Manager) HashFileExists() (bool, error) {
	return m.storage.Exists(HashFile)
}

// ReadHashFromFile re-asserts the read-only mode of the hash file and
// returns its trimmed content. Any failure is reported as ErrFileRead.
func (m *Manager) ReadHashFromFile() (string, error) {
	if err := m.storage.SetPermissions(HashFile, HashFileMode); err != nil {
		return "", ErrFileRead
	}

	data, err := m.storage.Read(HashFile)
	if err != nil {
		return "", ErrFileRead
	}
	if !utf8.Valid(data) {
		return "", ErrFileRead
	}

	return strings.TrimSpace(string(data)), nil
}

// VerifyPassword reports whether input matches storedHash. A hash the
// hasher cannot interpret is reported as ErrInvalidHash.
func (m *Manager) VerifyPassword(storedHash, input string) (bool, error) {
	ok, err := m.hasher.Verify(storedHash, input)
	if err != nil {
		return false, ErrInvalidHash
	}
	return ok, nil
}
