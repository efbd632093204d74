package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// Bcrypt hashes passwords with bcrypt
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher with the given cost
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost must be in [%d, %d], got %d",
			ErrInvalidOption, bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Driver returns DriverBcrypt
func (b *Bcrypt) Driver() Driver { return DriverBcrypt }

// Hash hashes secret with a random salt. Secrets longer than 72 bytes
// are rejected by bcrypt.
func (b *Bcrypt) Hash(secret string) (string, error) {
	password := []byte(secret)
	defer ClearBytes(password)

	hash, err := bcrypt.GenerateFromPassword(password, b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares secret against a bcrypt hash
func (b *Bcrypt) Verify(hash, secret string) (bool, error) {
	if err := checkBcrypt(hash); err != nil {
		return false, err
	}

	password := []byte(secret)
	defer ClearBytes(password)

	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword),
		errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}

// NeedsRehash reports whether hash was made with a different cost
func (b *Bcrypt) NeedsRehash(hash string) (bool, error) {
	info, err := b.Info(hash)
	if err != nil {
		return false, err
	}
	return info.Params["cost"] != uint64(b.cost), nil
}

// Info returns the cost encoded in hash
func (b *Bcrypt) Info(hash string) (Info, error) {
	if err := checkBcrypt(hash); err != nil {
		return Info{}, err
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return Info{Driver: DriverBcrypt, Params: map[string]uint64{"cost": uint64(cost)}}, nil
}

// Template returns the parameters a new hash would carry
func (b *Bcrypt) Template() Info {
	return Info{Driver: DriverBcrypt, Params: map[string]uint64{"cost": uint64(b.cost)}}
}

func checkBcrypt(hash string) error {
	driver, ok := DetectDriver(hash)
	switch {
	case !ok:
		return fmt.Errorf("%w: not a bcrypt hash", ErrInvalidHash)
	case driver != DriverBcrypt:
		return fmt.Errorf("%w: %s is not bcrypt", ErrAlgorithmMismatch, driver)
	}
	return nil
}
