package crypto

import (
	"errors"
	"strings"
	"testing"
)

func testArgon2(t *testing.T) *Argon2id {
	t.Helper()
	h, err := NewArgon2id(Argon2Options{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16})
	if err != nil {
		t.Fatalf("Failed to create argon2id hasher: %v", err)
	}
	return h
}

func testHashers(t *testing.T) []PasswordHasher {
	t.Helper()
	b, err := NewBcrypt(4)
	if err != nil {
		t.Fatalf("Failed to create bcrypt hasher: %v", err)
	}
	p, err := NewPBKDF2(minIters)
	if err != nil {
		t.Fatalf("Failed to create pbkdf2 hasher: %v", err)
	}
	return []PasswordHasher{testArgon2(t), b, p}
}

func TestHashAndVerify(t *testing.T) {
	for _, h := range testHashers(t) {
		t.Run(string(h.Driver()), func(t *testing.T) {
			hash, err := h.Hash("password123")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}

			if driver, ok := DetectDriver(hash); !ok || driver != h.Driver() {
				t.Errorf("DetectDriver(%q) = %s, %v", hash, driver, ok)
			}

			ok, err := h.Verify(hash, "password123")
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if !ok {
				t.Error("Expected correct password to verify")
			}

			ok, err = h.Verify(hash, "wrong")
			if err != nil {
				t.Fatalf("Verify with wrong password returned error: %v", err)
			}
			if ok {
				t.Error("Expected wrong password to be rejected")
			}
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	for _, h := range testHashers(t) {
		t.Run(string(h.Driver()), func(t *testing.T) {
			first, err := h.Hash("same")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			second, err := h.Hash("same")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			if first == second {
				t.Error("Expected different hashes for the same secret")
			}
		})
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	inputs := []string{
		"",
		"hashedpassword",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$!!!",
		"$argon2id$v=16$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"$argon2id$v=19$m=8192,t=0,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"$argon2id$v=19$m=99999999999,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"$argon2id$v=19$t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"$pbkdf2-sha256$i=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"$pbkdf2-sha256$iterations$c2FsdHNhbHQ$aGFzaGhhc2g",
		"$2a$xx$notreallyabcrypthash",
	}

	reg := NewRegistry(testHashers(t)[0], testHashers(t)[1:]...)
	for _, in := range inputs {
		ok, err := reg.Verify(in, "secret")
		if err == nil {
			t.Errorf("Verify(%q) expected error, got ok=%v", in, ok)
			continue
		}
		if !errors.Is(err, ErrInvalidHash) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidHash", in, err)
		}
	}
}

func TestAlgorithmMismatch(t *testing.T) {
	hashers := testHashers(t)
	argon, bc := hashers[0], hashers[1]

	hash, err := bc.Hash("secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if _, err := argon.Verify(hash, "secret"); !errors.Is(err, ErrAlgorithmMismatch) {
		t.Errorf("Expected ErrAlgorithmMismatch, got %v", err)
	}
}

func TestInvalidOptions(t *testing.T) {
	if _, err := NewArgon2id(Argon2Options{Memory: 4, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("Expected ErrInvalidOption for tiny memory, got %v", err)
	}
	if _, err := NewArgon2id(Argon2Options{Memory: 8192, Time: 0, Threads: 1, KeyLen: 32, SaltLen: 16}); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("Expected ErrInvalidOption for zero time, got %v", err)
	}
	if _, err := NewBcrypt(3); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("Expected ErrInvalidOption for bcrypt cost 3, got %v", err)
	}
	if _, err := NewPBKDF2(1000); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("Expected ErrInvalidOption for 1000 iterations, got %v", err)
	}
}

func TestRegistryVerifiesAcrossDrivers(t *testing.T) {
	hashers := testHashers(t)
	old := NewRegistry(hashers[1])

	hash, err := old.Hash("secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	current := NewRegistry(hashers[0], hashers[1:]...)
	if current.Default() != DriverArgon2id {
		t.Fatalf("Default = %s, want argon2id", current.Default())
	}

	ok, err := current.Verify(hash, "secret")
	if err != nil || !ok {
		t.Fatalf("Verify bcrypt hash through argon2id registry: ok=%v err=%v", ok, err)
	}

	needs, err := current.NeedsRehash(hash)
	if err != nil {
		t.Fatalf("NeedsRehash failed: %v", err)
	}
	if !needs {
		t.Error("Expected bcrypt hash to need rehash under argon2id default")
	}

	fresh, err := current.Hash("secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	needs, err = current.NeedsRehash(fresh)
	if err != nil {
		t.Fatalf("NeedsRehash failed: %v", err)
	}
	if needs {
		t.Error("Fresh hash should not need rehash")
	}
}

func TestRegistryUnknownDriver(t *testing.T) {
	reg := NewRegistry(testArgon2(t))
	_, err := reg.Verify("$2a$04$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ01234", "x")
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Expected ErrUnknownDriver, got %v", err)
	}
}

func TestNeedsRehashOnParameterChange(t *testing.T) {
	weak := testArgon2(t)
	hash, err := weak.Hash("secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	strong, err := NewArgon2id(Argon2Options{Memory: 16 * 1024, Time: 2, Threads: 1, KeyLen: 32, SaltLen: 16})
	if err != nil {
		t.Fatalf("Failed to create hasher: %v", err)
	}
	needs, err := strong.NeedsRehash(hash)
	if err != nil {
		t.Fatalf("NeedsRehash failed: %v", err)
	}
	if !needs {
		t.Error("Expected rehash when memory and time differ")
	}
}

func TestInfo(t *testing.T) {
	h := testArgon2(t)
	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	info, err := h.Info(hash)
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if got, want := info.String(), "argon2id v=19,m=8192,t=1,p=1,key_len=32"; got != want {
		t.Errorf("Info.String() = %q, want %q", got, want)
	}
	if got := h.Template().String(); got != info.String() {
		t.Errorf("Template().String() = %q, want %q", got, info.String())
	}
}

func TestDetectDriver(t *testing.T) {
	tests := []struct {
		hash   string
		driver Driver
		ok     bool
	}{
		{"$argon2id$v=19$m=1,t=1,p=1$a$b", DriverArgon2id, true},
		{"$2a$10$x", DriverBcrypt, true},
		{"$2b$10$x", DriverBcrypt, true},
		{"$2y$10$x", DriverBcrypt, true},
		{"$pbkdf2-sha256$i=1$a$b", DriverPBKDF2, true},
		{"$argon2i$v=19$m=1,t=1,p=1$a$b", "", false},
		{"plain", "", false},
	}

	for _, tt := range tests {
		driver, ok := DetectDriver(tt.hash)
		if driver != tt.driver || ok != tt.ok {
			t.Errorf("DetectDriver(%q) = %q, %v; want %q, %v", tt.hash, driver, ok, tt.driver, tt.ok)
		}
	}
}

func TestBcryptRejectsLongSecret(t *testing.T) {
	b, err := NewBcrypt(4)
	if err != nil {
		t.Fatalf("Failed to create bcrypt hasher: %v", err)
	}
	if _, err := b.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("Expected error hashing a secret longer than 72 bytes")
	}
}

func TestClearBytes(t *testing.T) {
	b := []byte("secret")
	ClearBytes(b)
	for i, c := range b {
		if c != 0 {
			t.Fatalf("byte %d not cleared", i)
		}
	}
}
