// Package keystore persists the billing API key, either as an owner-only
// JSON file under the config directory or in the OS keyring.
package keystore

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/weavex/quotabar/internal/config"
)

// Store is a device-scoped key-value store for secrets.
type Store interface {
	Get(name string) (string, bool, error)
	Set(name, value string) error
	Delete(name string) (bool, error)
}

// Backend names reported by Describe.
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// New returns the backend selected by cfg.
func New(cfg config.Config) Store {
	if cfg.Credentials.UseKeyring {
		return NewKeyringStore(DefaultService)
	}
	return NewFileStore(config.CredentialsDir())
}

// Describe names the backend of s and, for file stores, where name lives.
func Describe(s Store, name string) (backend, location string) {
	switch st := s.(type) {
	case *FileStore:
		p, err := st.Path(name)
		if err != nil {
			return BackendFile, ""
		}
		return BackendFile, p
	case *KeyringStore:
		return BackendKeyring, st.service + "/" + name
	default:
		return fmt.Sprintf("%T", s), ""
	}
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.New("secret name is empty")
	}
	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." || strings.ContainsRune(cleaned, filepath.Separator) {
		return "", fmt.Errorf("invalid secret name %q", name)
	}
	return cleaned, nil
}
