package crypto

import "fmt"

// PasswordHasher is implemented by every driver in this package
type PasswordHasher interface {
	Driver() Driver
	Hash(secret string) (string, error)
	Verify(hash, secret string) (bool, error)
	NeedsRehash(hash string) (bool, error)
	Info(hash string) (Info, error)
	// Template returns the Info a freshly made hash would carry.
	Template() Info
}

// Registry hashes with a default driver and verifies with whichever
// registered driver produced the stored hash.
type Registry struct {
	def     PasswordHasher
	drivers map[Driver]PasswordHasher
}

// NewRegistry creates a registry. def is used for new hashes; others are
// only consulted for verification and inspection.
func NewRegistry(def PasswordHasher, others ...PasswordHasher) *Registry {
	r := &Registry{
		def:     def,
		drivers: map[Driver]PasswordHasher{def.Driver(): def},
	}
	for _, h := range others {
		if _, exists := r.drivers[h.Driver()]; !exists {
			r.drivers[h.Driver()] = h
		}
	}
	return r
}

// NewDefaultRegistry registers all drivers with default parameters,
// Argon2id being the default.
func NewDefaultRegistry() (*Registry, error) {
	a, err := NewArgon2id(DefaultArgon2Options())
	if err != nil {
		return nil, err
	}
	b, err := NewBcrypt(DefaultBcryptCost)
	if err != nil {
		return nil, err
	}
	p, err := NewPBKDF2(DefaultIters)
	if err != nil {
		return nil, err
	}
	return NewRegistry(a, b, p), nil
}

// Default returns the driver used for new hashes
func (r *Registry) Default() Driver {
	return r.def.Driver()
}

// Hash hashes secret with the default driver
func (r *Registry) Hash(secret string) (string, error) {
	return r.def.Hash(secret)
}

// Verify checks secret against hash using the driver that produced it
func (r *Registry) Verify(hash, secret string) (bool, error) {
	h, err := r.lookup(hash)
	if err != nil {
		return false, err
	}
	return h.Verify(hash, secret)
}

// NeedsRehash reports whether hash was produced by another driver or with
// parameters different from the default driver's.
func (r *Registry) NeedsRehash(hash string) (bool, error) {
	h, err := r.lookup(hash)
	if err != nil {
		return false, err
	}
	if h.Driver() != r.def.Driver() {
		return true, nil
	}
	return h.NeedsRehash(hash)
}

// Info returns the parameters encoded in hash
func (r *Registry) Info(hash string) (Info, error) {
	h, err := r.lookup(hash)
	if err != nil {
		return Info{}, err
	}
	return h.Info(hash)
}

// Template returns the parameters the default driver encodes today
func (r *Registry) Template() Info {
	return r.def.Template()
}

func (r *Registry) lookup(hash string) (PasswordHasher, error) {
	driver, ok := DetectDriver(hash)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognised prefix", ErrInvalidHash)
	}
	h, ok := r.drivers[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
	return h, nil
}
