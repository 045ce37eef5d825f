// Package credential stores the bearer token in the system keyring.
package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "ajor"

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("credential not found")

// Ring wraps an opened system keyring.
type Ring struct {
	kr keyring.Keyring
}

// Open returns a Ring backed by the first available system keyring
// (Keychain, Secret Service, Windows Credential Manager, pass, or an
// encrypted file as last resort).
func Open() (*Ring, error) {
	kr, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/ajor/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("ajor-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Ring{kr: kr}, nil
}

// NewFromKeyring wraps an existing keyring. Tests use this with an
// in-memory ArrayKeyring.
func NewFromKeyring(kr keyring.Keyring) *Ring {
	return &Ring{kr: kr}
}

// Get retrieves a stored value by key.
func (r *Ring) Get(key string) (string, error) {
	item, err := r.kr.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a value under key.
func (r *Ring) Set(key, value string) error {
	err := r.kr.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a stored value. Deleting a missing key is a no-op.
func (r *Ring) Delete(key string) error {
	err := r.kr.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}
