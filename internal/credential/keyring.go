package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "teamboard"

// sessionKeyPrefix namespaces per-member session markers.
const sessionKeyPrefix = "session:"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/teamboard/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("teamboard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// HasSession reports whether a session marker exists for the member.
// Absence means this is the member's first login on this machine.
func HasSession(memberID string) (bool, error) {
	ring, err := openKeyring()
	if err != nil {
		return false, err
	}

	_, err = ring.Get(sessionKeyPrefix + memberID)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking session for %q: %w", memberID, err)
	}
	return true, nil
}

// MarkSession records a session marker for the member.
func MarkSession(memberID string) error {
	return Set(sessionKeyPrefix+memberID, "1")
}
