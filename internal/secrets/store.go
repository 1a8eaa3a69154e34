// Package secrets stores the Perforce password. It uses the OS keychain
// (macOS Keychain, Linux Secret Service) when available, with a 0600 file
// fallback for machines without one (CI, containers, SSH sessions).
package secrets

import "errors"

// serviceName is the keychain service identifier for all p secrets.
const serviceName = "p"

// Store provides credential storage.
type Store interface {
	// Get retrieves a secret by key. Returns ErrNotFound if not present.
	Get(key string) (string, error)
	// Set stores a secret under the given key, replacing any existing value.
	Set(key, value string) error
	// Delete removes a secret. No error if the key doesn't exist.
	Delete(key string) error
}

// ErrNotFound is returned when a secret key does not exist.
var ErrNotFound = errors.New("secret not found")

// PasswordKey builds the key for a user's password on a server.
// Format: "p4/port/user/password" (e.g. "p4/ssl:perforce:1666/alice/password").
func PasswordKey(port, user string) string {
	if port == "" {
		port = "default"
	}
	return "p4/" + port + "/" + user + "/password"
}

// New returns the best available Store for the current environment.
// It tries the OS keychain first, falling back to a file in dir.
func New(dir string) Store {
	ks := newKeychainStore()
	probeKey := "__p_probe__"
	if err := ks.Set(probeKey, "ok"); err != nil {
		return newFileStore(dir)
	}
	_ = ks.Delete(probeKey)
	return ks
}
