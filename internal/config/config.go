// Package config loads hashguard settings from an optional file and
// HASHGUARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/illarion/hashguard/internal/crypto"
	"github.com/spf13/viper"
)

const (
	EnvPrefix   = "HASHGUARD"
	DefaultName = "hashguard" // hashguard.yaml, hashguard.toml, ... in the working directory
)

// Storage backends
const (
	BackendFile    = "file"
	BackendBolt    = "bolt"
	BackendKeyring = "keyring"
	BackendMemory  = "memory"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Hasher  HasherConfig  `mapstructure:"hasher"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type HasherConfig struct {
	Driver string       `mapstructure:"driver"`
	Argon2 Argon2Config `mapstructure:"argon2"`
	Bcrypt BcryptConfig `mapstructure:"bcrypt"`
	PBKDF2 PBKDF2Config `mapstructure:"pbkdf2"`
}

type Argon2Config struct {
	Memory  uint32 `mapstructure:"memory"`
	Time    uint32 `mapstructure:"time"`
	Threads uint8  `mapstructure:"threads"`
	KeyLen  uint32 `mapstructure:"key_len"`
	SaltLen uint32 `mapstructure:"salt_len"`
}

type BcryptConfig struct {
	Cost int `mapstructure:"cost"`
}

type PBKDF2Config struct {
	Iterations int `mapstructure:"iterations"`
}

type StorageConfig struct {
	Backend        string `mapstructure:"backend"`
	Dir            string `mapstructure:"dir"`
	BoltPath       string `mapstructure:"bolt_path"`
	KeyringService string `mapstructure:"keyring_service"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("hasher.driver", string(crypto.DriverArgon2id))
	v.SetDefault("hasher.argon2.memory", crypto.DefaultArgon2Memory)
	v.SetDefault("hasher.argon2.time", crypto.DefaultArgon2Time)
	v.SetDefault("hasher.argon2.threads", crypto.DefaultArgon2Threads)
	v.SetDefault("hasher.argon2.key_len", crypto.DefaultArgon2KeyLen)
	v.SetDefault("hasher.argon2.salt_len", crypto.DefaultArgon2SaltLen)
	v.SetDefault("hasher.bcrypt.cost", crypto.DefaultBcryptCost)
	v.SetDefault("hasher.pbkdf2.iterations", crypto.DefaultIters)

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.dir", ".")
	v.SetDefault("storage.bolt_path", "hashguard.db")
	v.SetDefault("storage.keyring_service", "hashguard")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// Load reads configuration. When file is empty, hashguard.* in the working
// directory is used if present. Environment variables override both.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(DefaultName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings. Hasher parameters are checked when
// the registry is built.
func (c *Config) Validate() error {
	switch crypto.Driver(c.Hasher.Driver) {
	case crypto.DriverArgon2id, crypto.DriverBcrypt, crypto.DriverPBKDF2:
	default:
		return fmt.Errorf("%w: unknown hasher.driver %q", ErrInvalidConfig, c.Hasher.Driver)
	}

	switch c.Storage.Backend {
	case BackendFile, BackendBolt, BackendKeyring, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	return nil
}

// Argon2Options converts the argon2 section
func (h HasherConfig) Argon2Options() crypto.Argon2Options {
	return crypto.Argon2Options{
		Memory:  h.Argon2.Memory,
		Time:    h.Argon2.Time,
		Threads: h.Argon2.Threads,
		KeyLen:  h.Argon2.KeyLen,
		SaltLen: h.Argon2.SaltLen,
	}
}

// Registry builds a registry hashing with the configured driver. The other
// drivers are registered too so hashes made before a driver switch still
// verify.
func (h HasherConfig) Registry() (*crypto.Registry, error) {
	a, err := crypto.NewArgon2id(h.Argon2Options())
	if err != nil {
		return nil, err
	}
	b, err := crypto.NewBcrypt(h.Bcrypt.Cost)
	if err != nil {
		return nil, err
	}
	p, err := crypto.NewPBKDF2(h.PBKDF2.Iterations)
	if err != nil {
		return nil, err
	}

	switch crypto.Driver(h.Driver) {
	case crypto.DriverBcrypt:
		return crypto.NewRegistry(b, a, p), nil
	case crypto.DriverPBKDF2:
		return crypto.NewRegistry(p, a, b), nil
	case crypto.DriverArgon2id:
		return crypto.NewRegistry(a, b, p), nil
	default:
		return nil, fmt.Errorf("%w: %s", crypto.ErrUnknownDriver, h.Driver)
	}
}
