package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keychainStore wraps zalando/go-keyring for OS keychain access.
type keychainStore struct{}

func newKeychainStore() *keychainStore {
	return &keychainStore{}
}

func (k *keychainStore) Get(key string) (string, error) {
	val, err := keyring.Get(serviceName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keychain get %s: %w", key, err)
	}
	return val, nil
}

func (k *keychainStore) Set(key, value string) error {
	if err := keyring.Set(serviceName, key, value); err != nil {
		return fmt.Errorf("keychain set %s: %w", key, err)
	}
	return nil
}

func (k *keychainStore) Delete(key string) error {
	err := keyring.Delete(serviceName, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keychain delete %s: %w", key, err)
	}
	return nil
}
