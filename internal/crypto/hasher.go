package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Driver identifies a hashing algorithm
type Driver string

const (
	DriverArgon2id Driver = "argon2id"
	DriverBcrypt   Driver = "bcrypt"
	DriverPBKDF2   Driver = "pbkdf2-sha256"
)

var (
	ErrInvalidHash       = errors.New("invalid or unrecognised hash string")
	ErrAlgorithmMismatch = errors.New("hash was produced by a different algorithm")
	ErrInvalidOption     = errors.New("invalid hasher option")
	ErrUnknownDriver     = errors.New("unknown hash driver")
)

// Info carries the parameters encoded in a hash string.
type Info struct {
	Driver Driver
	// Params holds driver-specific values keyed by their short PHC names
	// (m, t, p for argon2id; cost for bcrypt; i for pbkdf2).
	Params map[string]uint64
}

// String renders Params in a stable "k=v,k=v" order.
func (i Info) String() string {
	var keys []string
	switch i.Driver {
	case DriverArgon2id:
		keys = []string{"v", "m", "t", "p", "key_len"}
	case DriverBcrypt:
		keys = []string{"cost"}
	case DriverPBKDF2:
		keys = []string{"i", "key_len"}
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v, ok := i.Params[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", k, v))
		}
	}
	return string(i.Driver) + " " + strings.Join(parts, ",")
}

// DetectDriver guesses the driver that produced hash from its prefix.
// It does not validate the rest of the string.
func DetectDriver(hash string) (Driver, bool) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return DriverArgon2id, true
	case strings.HasPrefix(hash, "$pbkdf2-sha256$"):
		return DriverPBKDF2, true
	case strings.HasPrefix(hash, "$2a$"),
		strings.HasPrefix(hash, "$2b$"),
		strings.HasPrefix(hash, "$2y$"):
		return DriverBcrypt, true
	default:
		return "", false
	}
}

// splitPHC splits a "$id$...$salt$hash" string into its segments, dropping
// the empty leading one. n is the expected number of segments.
func splitPHC(encoded string, n int) ([]string, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != n+1 || parts[0] != "" {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", ErrInvalidHash, n, len(parts)-1)
	}
	return parts[1:], nil
}

// parseParams splits "m=65536,t=3,p=2" into a map.
func parseParams(s string) (map[string]uint64, error) {
	out := make(map[string]uint64)
	for _, kv := range strings.Split(s, ",") {
		eq := strings.IndexByte(kv, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("%w: malformed param %q", ErrInvalidHash, kv)
		}
		v, err := strconv.ParseUint(kv[eq+1:], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric value in %q", ErrInvalidHash, kv)
		}
		out[kv[:eq]] = v
	}
	return out, nil
}

func encodeB64(b []byte) string {
	return base64.RawStdEncoding.EncodeToString(b)
}

func decodeB64(s, what string) ([]byte, error) {
	b, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s encoding", ErrInvalidHash, what)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty %s", ErrInvalidHash, what)
	}
	return b, nil
}
