package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "pswdb"

// ErrNotFound is returned when no passphrase is stored for a store.
var ErrNotFound = keyring.ErrNotFound

// SavePassphrase stores the passphrase of a store in the OS keyring
func SavePassphrase(storeID string, passphrase []byte) error {
	return keyring.Set(serviceName, storeID, string(passphrase))
}

// GetPassphrase retrieves the passphrase of a store from the OS keyring
func GetPassphrase(storeID string) ([]byte, error) {
	secret, err := keyring.Get(serviceName, storeID)
	if err != nil {
		return nil, err
	}
	return []byte(secret), nil
}

// DeletePassphrase removes a stored passphrase. Deleting a missing entry is
// not an error.
func DeletePassphrase(storeID string) error {
	err := keyring.Delete(serviceName, storeID)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// HasPassphrase checks if a passphrase is stored for the store
func HasPassphrase(storeID string) bool {
	_, err := keyring.Get(serviceName, storeID)
	return err == nil
}
