package keystore

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/weavex/quotabar/internal/config"
)

// FileStore keeps one {"api_key": ...} JSON file per name.
type FileStore struct {
	root string
	mu   sync.RWMutex
}

var _ Store = (*FileStore)(nil)

type credentialFile struct {
	APIKey string `json:"api_key"`
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: filepath.Clean(root)}
}

// Path is the file backing name.
func (s *FileStore) Path(name string) (string, error) {
	cleaned, err := validateName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, cleaned+".json"), nil
}

func (s *FileStore) Get(name string) (string, bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := config.ReadCredential(path)
	if err != nil {
		return "", false, err
	}
	if data == nil {
		return "", false, nil
	}
	var creds credentialFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", false, fmt.Errorf("decoding %s: %w", path, err)
	}
	key := strings.TrimSpace(creds.APIKey)
	return key, key != "", nil
}

func (s *FileStore) Set(name, value string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(credentialFile{APIKey: value})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return config.WriteCredential(path, data)
}

func (s *FileStore) Delete(name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return config.DeleteCredential(path)
}
