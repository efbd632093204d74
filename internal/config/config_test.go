package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/hashguard/internal/crypto"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.File != "" {
		t.Errorf("No config file expected, got %q", cfg.File)
	}
	if cfg.Hasher.Driver != string(crypto.DriverArgon2id) {
		t.Errorf("Driver = %q, want argon2id", cfg.Hasher.Driver)
	}
	if cfg.Hasher.Argon2Options() != crypto.DefaultArgon2Options() {
		t.Errorf("Argon2 options = %+v, want defaults", cfg.Hasher.Argon2Options())
	}
	if cfg.Hasher.Bcrypt.Cost != crypto.DefaultBcryptCost {
		t.Errorf("Bcrypt cost = %d", cfg.Hasher.Bcrypt.Cost)
	}
	if cfg.Hasher.PBKDF2.Iterations != crypto.DefaultIters {
		t.Errorf("PBKDF2 iterations = %d", cfg.Hasher.PBKDF2.Iterations)
	}
	if cfg.Storage.Backend != BackendFile || cfg.Storage.Dir != "." {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "custom.yaml", `
hasher:
  driver: bcrypt
  bcrypt:
    cost: 10
  argon2:
    memory: 16384
    threads: 1
storage:
  backend: bolt
  bolt_path: /var/lib/hashguard/hash.db
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.File != path {
		t.Errorf("File = %q, want %q", cfg.File, path)
	}
	if cfg.Hasher.Driver != "bcrypt" || cfg.Hasher.Bcrypt.Cost != 10 {
		t.Errorf("Hasher = %+v", cfg.Hasher)
	}
	if cfg.Hasher.Argon2.Memory != 16384 || cfg.Hasher.Argon2.Threads != 1 {
		t.Errorf("Argon2 = %+v", cfg.Hasher.Argon2)
	}
	if cfg.Hasher.Argon2.Time != crypto.DefaultArgon2Time {
		t.Errorf("Unset keys should keep defaults, time = %d", cfg.Hasher.Argon2.Time)
	}
	if cfg.Storage.Backend != BackendBolt || cfg.Storage.BoltPath != "/var/lib/hashguard/hash.db" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "hashguard.yaml", "storage:\n  backend: memory\n")
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Backend = %q, want memory", cfg.Storage.Backend)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "hashguard.yaml", "hasher:\n  driver: bcrypt\n")

	t.Setenv("HASHGUARD_HASHER_DRIVER", "pbkdf2-sha256")
	t.Setenv("HASHGUARD_HASHER_PBKDF2_ITERATIONS", "50000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Hasher.Driver != "pbkdf2-sha256" {
		t.Errorf("Driver = %q, want env override", cfg.Hasher.Driver)
	}
	if cfg.Hasher.PBKDF2.Iterations != 50000 {
		t.Errorf("Iterations = %d, want 50000", cfg.Hasher.PBKDF2.Iterations)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing explicit file", filepath.Join(dir, "missing.yaml"), nil},
		{"malformed yaml", writeConfig(t, dir, "bad.yaml", "hasher: [driver"), nil},
		{"unknown driver", writeConfig(t, dir, "driver.yaml", "hasher:\n  driver: md5\n"), ErrInvalidConfig},
		{"unknown backend", writeConfig(t, dir, "backend.yaml", "storage:\n  backend: s3\n"), ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	h := HasherConfig{
		Argon2: Argon2Config{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16},
		Bcrypt: BcryptConfig{Cost: 4},
		PBKDF2: PBKDF2Config{Iterations: 10000},
	}

	for _, d := range []crypto.Driver{crypto.DriverArgon2id, crypto.DriverBcrypt, crypto.DriverPBKDF2} {
		h.Driver = string(d)
		r, err := h.Registry()
		if err != nil {
			t.Fatalf("Registry(%s) failed: %v", d, err)
		}
		if r.Default() != d {
			t.Errorf("Default = %s, want %s", r.Default(), d)
		}
	}

	h.Driver = string(crypto.DriverBcrypt)
	h.Bcrypt.Cost = 1
	if _, err := h.Registry(); !errors.Is(err, crypto.ErrInvalidOption) {
		t.Errorf("Expected ErrInvalidOption, got %v", err)
	}
}
