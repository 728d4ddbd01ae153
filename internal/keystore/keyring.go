package keystore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// DefaultService is the keyring service the key is filed under.
const DefaultService = "quotabar"

// KeyringStore keeps secrets in the OS keyring (Keychain, Secret Service,
// Windows Credential Manager).
type KeyringStore struct {
	service string
}

var _ Store = (*KeyringStore)(nil)

func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = DefaultService
	}
	return &KeyringStore{service: service}
}

func (s *KeyringStore) Get(name string) (string, bool, error) {
	user, err := validateName(name)
	if err != nil {
		return "", false, err
	}
	v, err := keyring.Get(s.service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s from keyring: %w", user, err)
	}
	return v, v != "", nil
}

func (s *KeyringStore) Set(name, value string) error {
	user, err := validateName(name)
	if err != nil {
		return err
	}
	if err := keyring.Set(s.service, user, value); err != nil {
		return fmt.Errorf("writing %s to keyring: %w", user, err)
	}
	return nil
}

func (s *KeyringStore) Delete(name string) (bool, error) {
	user, err := validateName(name)
	if err != nil {
		return false, err
	}
	err = keyring.Delete(s.service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("deleting %s from keyring: %w", user, err)
	}
	return true, nil
}
