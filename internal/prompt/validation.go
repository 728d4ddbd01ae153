package prompt

import (
	"errors"
	"strings"
)

// ErrEmptyKey is returned by ValidateAPIKey for blank input.
var ErrEmptyKey = errors.New("API key cannot be empty")

// ValidateAPIKey rejects empty or whitespace-only keys. The format is not
// checked; the billing API decides whether a key is valid.
func ValidateAPIKey(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyKey
	}
	return nil
}

// ValidateAtLeastOne rejects an empty selection.
func ValidateAtLeastOne(selected []string) error {
	if len(selected) == 0 {
		return errors.New("select at least one action")
	}
	return nil
}
