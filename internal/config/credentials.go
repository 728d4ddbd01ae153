package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CredentialPath is the file holding the named credential.
func CredentialPath(name string) string {
	return filepath.Join(CredentialsDir(), name+".json")
}

// WriteCredential writes content with owner-only permissions, replacing any
// existing file atomically.
func WriteCredential(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing credential: %w", err)
	}
	return nil
}

// ReadCredential returns nil, nil when the file does not exist.
func ReadCredential(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading credential: %w", err)
	}
	return data, nil
}

// DeleteCredential removes the file, reporting whether it existed.
func DeleteCredential(path string) (bool, error) {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("deleting credential: %w", err)
	}
	return true, nil
}
