package crypto

import (
	"errors"
	"os"
)

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "proinvoice"
	KeyName     = "db-encryption-key"

	// EnvKey holds the database key when no system keyring is used
	EnvKey = "PROINVOICE_DB_KEY"
)

// ErrNoKey is returned when no database key is stored anywhere
var ErrNoKey = errors.New("database encryption key not found")

// NewKeyring returns the best available keyring implementation.
// A key set in the environment always wins, so scripts and CI never touch the system keyring.
func NewKeyring() Keyring {
	if os.Getenv(EnvKey) != "" {
		return &envKeyring{}
	}
	return newPlatformKeyring()
}

// envKeyring reads the key from the environment and cannot persist one
type envKeyring struct{}

func (k *envKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvKey)
	if key == "" {
		return "", ErrNoKey
	}
	return key, nil
}

func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	return errors.New("no system keyring on this platform: export " + EnvKey + " with the chosen password")
}

func (k *envKeyring) DeleteKey() error {
	return errors.New("no system keyring on this platform: unset " + EnvKey + " manually")
}

func (k *envKeyring) IsAvailable() bool {
	return os.Getenv(EnvKey) != ""
}
