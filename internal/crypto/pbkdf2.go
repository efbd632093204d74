package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 32     // PBKDF2 salt size in bytes
	KeySize      = 32     // PBKDF2 derived key size
	DefaultIters = 210000 // Default PBKDF2 iterations (OWASP minimum)

	minIters = 10000
)

// PBKDF2 hashes passwords with PBKDF2-HMAC-SHA256
type PBKDF2 struct {
	Iterations int
}

// NewPBKDF2 creates a PBKDF2 hasher with the given iteration count
func NewPBKDF2(iterations int) (*PBKDF2, error) {
	if iterations < minIters {
		return nil, fmt.Errorf("%w: pbkdf2 iterations must be >= %d, got %d", ErrInvalidOption, minIters, iterations)
	}
	return &PBKDF2{Iterations: iterations}, nil
}

// Driver returns DriverPBKDF2
func (k *PBKDF2) Driver() Driver { return DriverPBKDF2 }

// Hash derives a key from secret with a fresh random salt
func (k *PBKDF2) Hash(secret string) (string, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	password := []byte(secret)
	defer ClearBytes(password)

	key := pbkdf2.Key(password, salt, k.Iterations, KeySize, sha256.New)
	return fmt.Sprintf("$%s$i=%d$%s$%s", DriverPBKDF2, k.Iterations, encodeB64(salt), encodeB64(key)), nil
}

// Verify recomputes the key with the iteration count stored in hash
func (k *PBKDF2) Verify(hash, secret string) (bool, error) {
	iters, salt, key, err := decodePBKDF2(hash)
	if err != nil {
		return false, err
	}

	password := []byte(secret)
	defer ClearBytes(password)

	computed := pbkdf2.Key(password, salt, iters, len(key), sha256.New)
	return ConstantTimeCompare(computed, key), nil
}

// NeedsRehash reports whether hash was made with a different iteration count
func (k *PBKDF2) NeedsRehash(hash string) (bool, error) {
	iters, _, key, err := decodePBKDF2(hash)
	if err != nil {
		return false, err
	}
	return iters != k.Iterations || len(key) != KeySize, nil
}

// Info returns the parameters encoded in hash
func (k *PBKDF2) Info(hash string) (Info, error) {
	iters, _, key, err := decodePBKDF2(hash)
	if err != nil {
		return Info{}, err
	}
	return Info{Driver: DriverPBKDF2, Params: map[string]uint64{
		"i":       uint64(iters),
		"key_len": uint64(len(key)),
	}}, nil
}

// Template returns the parameters a new hash would carry
func (k *PBKDF2) Template() Info {
	return Info{Driver: DriverPBKDF2, Params: map[string]uint64{
		"i":       uint64(k.Iterations),
		"key_len": KeySize,
	}}
}

func decodePBKDF2(encoded string) (int, []byte, []byte, error) {
	if driver, ok := DetectDriver(encoded); ok && driver != DriverPBKDF2 {
		return 0, nil, nil, fmt.Errorf("%w: %s is not %s", ErrAlgorithmMismatch, driver, DriverPBKDF2)
	}

	parts, err := splitPHC(encoded, 4)
	if err != nil {
		return 0, nil, nil, err
	}
	if parts[0] != string(DriverPBKDF2) {
		return 0, nil, nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidHash, parts[0])
	}

	kvs, err := parseParams(parts[1])
	if err != nil {
		return 0, nil, nil, err
	}
	iters, ok := kvs["i"]
	if !ok || iters < minIters {
		return 0, nil, nil, fmt.Errorf("%w: bad iteration count in %q", ErrInvalidHash, parts[1])
	}

	salt, err := decodeB64(parts[2], "salt")
	if err != nil {
		return 0, nil, nil, err
	}
	key, err := decodeB64(parts[3], "hash")
	if err != nil {
		return 0, nil, nil, err
	}
	return int(iters), salt, key, nil
}
