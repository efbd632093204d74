package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/illarion/hashguard/internal/config"
	"github.com/illarion/hashguard/internal/core"
	"github.com/illarion/hashguard/internal/crypto"
	"github.com/illarion/hashguard/internal/keyring"
	"github.com/illarion/hashguard/internal/storage"
)

var (
	ErrEmptyPassword  = errors.New("password must not be empty")
	ErrNotBoltBackend = errors.New("storage backend is not bolt")
)

// OpenStorage opens the backend selected by cfg
func OpenStorage(cfg *config.Config) (core.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return storage.OpenFile(cfg.Storage.Dir)
	case config.BackendBolt:
		return storage.OpenBolt(cfg.Storage.BoltPath)
	case config.BackendKeyring:
		return keyring.New(cfg.Storage.KeyringService), nil
	case config.BackendMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage.backend %q", config.ErrInvalidConfig, cfg.Storage.Backend)
	}
}

// OpenManager builds a manager from cfg. Call Close when done.
func OpenManager(cfg *config.Config) (*core.Manager, error) {
	registry, err := cfg.Hasher.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to create hasher: %w", err)
	}

	s, err := OpenStorage(cfg)
	if err != nil {
		return nil, err
	}

	slog.Debug("manager ready",
		"driver", registry.Default(),
		"backend", cfg.Storage.Backend,
		"location", describeLocation(cfg))

	return core.New(registry, s), nil
}

// OpenManagerOrExit is like OpenManager but exits on error
func OpenManagerOrExit(cfg *config.Config) *core.Manager {
	m, err := OpenManager(cfg)
	if err != nil {
		HandleError(err)
	}
	return m
}

func describeLocation(cfg *config.Config) string {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return cfg.Storage.Dir
	case config.BackendBolt:
		return cfg.Storage.BoltPath
	case config.BackendKeyring:
		return "service " + cfg.Storage.KeyringService
	default:
		return "process memory"
	}
}

// GetPassword retrieves password from environment or prompts user
// The caller is responsible for calling crypto.ClearBytes on the returned password
func GetPassword(prompt string) ([]byte, error) {
	// Try environment variable first
	password := core.GetPasswordFromEnv()
	if password != nil {
		return password, nil
	}

	// Prompt user
	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// GetPasswordOrExit is like GetPassword but exits on error
func GetPasswordOrExit(prompt string) []byte {
	password, err := GetPassword(prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return password
}

// GetPasswordForSave retrieves password for the save command
// Checks environment variable first, then prompts with confirmation
func GetPasswordForSave() ([]byte, error) {
	password := core.GetPasswordFromEnv()
	if password == nil {
		var err error
		password, err = core.ReadPasswordConfirm()
		if err != nil {
			return nil, err
		}
	}

	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	return password, nil
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrFileRead):
		fmt.Fprintf(os.Stderr, "Error: no readable password hash found\n")
		fmt.Fprintf(os.Stderr, "Run 'hashguard save' first\n")
	case errors.Is(err, core.ErrInvalidHash):
		fmt.Fprintf(os.Stderr, "Error: stored password hash is invalid\n")
		fmt.Fprintf(os.Stderr, "Run 'hashguard save' to replace it\n")
	case errors.Is(err, crypto.ErrInvalidOption):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Check the hasher section of your configuration\n")
	case errors.Is(err, ErrNotBoltBackend):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Set storage.backend to bolt to use this command\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
