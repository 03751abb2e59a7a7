//go:build darwin

package crypto

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keychain stores the database key as a generic password item in the login keychain
type keychain struct {
	service string
	account string
}

func newPlatformKeyring() Keyring {
	return &keychain{service: ServiceName, account: KeyName}
}

func (k *keychain) GetKey() (string, error) {
	key, err := keyring.Get(k.service, k.account)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", fmt.Errorf("%w in keychain", ErrNoKey)
	case err != nil:
		return "", fmt.Errorf("failed to read keychain item %s/%s: %w", k.service, k.account, err)
	case key == "":
		return "", ErrNoKey
	}
	return key, nil
}

func (k *keychain) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(k.service, k.account, password); err != nil {
		return fmt.Errorf("failed to write keychain item %s/%s: %w", k.service, k.account, err)
	}
	return nil
}

// DeleteKey forgets the stored key; a missing item counts as deleted.
func (k *keychain) DeleteKey() error {
	if err := keyring.Delete(k.service, k.account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keychain item %s/%s: %w", k.service, k.account, err)
	}
	return nil
}

// IsAvailable writes and removes a throwaway item to see whether the keychain is unlocked
func (k *keychain) IsAvailable() bool {
	probe := k.account + ".probe"
	if err := keyring.Set(k.service, probe, "ok"); err != nil {
		return false
	}
	_ = keyring.Delete(k.service, probe)
	return true
}
