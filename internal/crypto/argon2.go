package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	DefaultArgon2Memory  uint32 = 64 * 1024 // KiB
	DefaultArgon2Time    uint32 = 3
	DefaultArgon2Threads uint8  = 2
	DefaultArgon2KeyLen  uint32 = 32
	DefaultArgon2SaltLen uint32 = 16

	// Largest memory cost accepted from a stored hash.
	maxArgon2Memory uint32 = 4 * 1024 * 1024
)

// Argon2Options configures an Argon2id hasher
type Argon2Options struct {
	Memory  uint32 // KiB, at least 8*Threads
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultArgon2Options returns the recommended Argon2id parameters
func DefaultArgon2Options() Argon2Options {
	return Argon2Options{
		Memory:  DefaultArgon2Memory,
		Time:    DefaultArgon2Time,
		Threads: DefaultArgon2Threads,
		KeyLen:  DefaultArgon2KeyLen,
		SaltLen: DefaultArgon2SaltLen,
	}
}

func (o Argon2Options) validate() error {
	switch {
	case o.Time < 1:
		return fmt.Errorf("%w: argon2 time must be >= 1, got %d", ErrInvalidOption, o.Time)
	case o.Threads < 1:
		return fmt.Errorf("%w: argon2 threads must be >= 1, got %d", ErrInvalidOption, o.Threads)
	case o.Memory < 8*uint32(o.Threads):
		return fmt.Errorf("%w: argon2 memory %d KiB is below 8*threads", ErrInvalidOption, o.Memory)
	case o.Memory > maxArgon2Memory:
		return fmt.Errorf("%w: argon2 memory %d KiB exceeds %d KiB", ErrInvalidOption, o.Memory, maxArgon2Memory)
	case o.KeyLen < 16:
		return fmt.Errorf("%w: argon2 key length must be >= 16, got %d", ErrInvalidOption, o.KeyLen)
	case o.SaltLen < 8:
		return fmt.Errorf("%w: argon2 salt length must be >= 8, got %d", ErrInvalidOption, o.SaltLen)
	}
	return nil
}

// Argon2id hashes passwords with Argon2id in PHC string format.
// It is immutable after construction and safe for concurrent use.
type Argon2id struct {
	opts Argon2Options
}

// NewArgon2id creates an Argon2id hasher
func NewArgon2id(opts Argon2Options) (*Argon2id, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Argon2id{opts: opts}, nil
}

// Driver returns DriverArgon2id
func (a *Argon2id) Driver() Driver { return DriverArgon2id }

// Hash derives a key from secret with a fresh random salt
func (a *Argon2id) Hash(secret string) (string, error) {
	salt, err := GenerateRandom(int(a.opts.SaltLen))
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	password := []byte(secret)
	defer ClearBytes(password)

	key := argon2.IDKey(password, salt, a.opts.Time, a.opts.Memory, a.opts.Threads, a.opts.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.opts.Memory, a.opts.Time, a.opts.Threads,
		encodeB64(salt), encodeB64(key)), nil
}

// Verify recomputes the key with the parameters stored in hash
func (a *Argon2id) Verify(hash, secret string) (bool, error) {
	p, err := decodeArgon2id(hash)
	if err != nil {
		return false, err
	}

	password := []byte(secret)
	defer ClearBytes(password)

	computed := argon2.IDKey(password, p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return ConstantTimeCompare(computed, p.key), nil
}

// NeedsRehash reports whether hash was made with different parameters
func (a *Argon2id) NeedsRehash(hash string) (bool, error) {
	p, err := decodeArgon2id(hash)
	if err != nil {
		return false, err
	}
	return p.memory != a.opts.Memory ||
		p.time != a.opts.Time ||
		p.threads != a.opts.Threads ||
		uint32(len(p.key)) != a.opts.KeyLen, nil
}

// Info returns the parameters encoded in hash
func (a *Argon2id) Info(hash string) (Info, error) {
	p, err := decodeArgon2id(hash)
	if err != nil {
		return Info{}, err
	}
	return Info{Driver: DriverArgon2id, Params: map[string]uint64{
		"v":       uint64(argon2.Version),
		"m":       uint64(p.memory),
		"t":       uint64(p.time),
		"p":       uint64(p.threads),
		"key_len": uint64(len(p.key)),
	}}, nil
}

// Template returns the parameters a new hash would carry
func (a *Argon2id) Template() Info {
	return Info{Driver: DriverArgon2id, Params: map[string]uint64{
		"v":       uint64(argon2.Version),
		"m":       uint64(a.opts.Memory),
		"t":       uint64(a.opts.Time),
		"p":       uint64(a.opts.Threads),
		"key_len": uint64(a.opts.KeyLen),
	}}
}

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func decodeArgon2id(encoded string) (*argon2Params, error) {
	if driver, ok := DetectDriver(encoded); ok && driver != DriverArgon2id {
		return nil, fmt.Errorf("%w: %s is not argon2id", ErrAlgorithmMismatch, driver)
	}

	parts, err := splitPHC(encoded, 5)
	if err != nil {
		return nil, err
	}
	if parts[0] != string(DriverArgon2id) {
		return nil, fmt.Errorf("%w: unknown variant %q", ErrInvalidHash, parts[0])
	}

	if parts[1] != fmt.Sprintf("v=%d", argon2.Version) {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidHash, parts[1])
	}

	kvs, err := parseParams(parts[2])
	if err != nil {
		return nil, err
	}
	m, okM := kvs["m"]
	t, okT := kvs["t"]
	p, okP := kvs["p"]
	if !okM || !okT || !okP {
		return nil, fmt.Errorf("%w: missing m/t/p in %q", ErrInvalidHash, parts[2])
	}
	if t < 1 || p < 1 || p > 255 || m < 8*p || m > uint64(maxArgon2Memory) {
		return nil, fmt.Errorf("%w: parameters out of range in %q", ErrInvalidHash, parts[2])
	}

	salt, err := decodeB64(parts[3], "salt")
	if err != nil {
		return nil, err
	}
	key, err := decodeB64(parts[4], "hash")
	if err != nil {
		return nil, err
	}

	return &argon2Params{
		memory:  uint32(m),
		time:    uint32(t),
		threads: uint8(p),
		salt:    salt,
		key:     key,
	}, nil
}
