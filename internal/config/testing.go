package config

import (
	"path/filepath"
	"testing"
)

// Override sets the global config to cfg for the duration of the test,
// restoring the previous value on cleanup.
func Override(t testing.TB, cfg Config) {
	t.Helper()
	configMu.RLock()
	prev := globalConfig
	configMu.RUnlock()

	set(cfg)
	t.Cleanup(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig = prev
	})
}

// Isolate points the config directory at a temp dir, clears env overrides,
// and resets the cached global config. It returns the config directory.
func Isolate(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "config")
	t.Setenv("QUOTABAR_CONFIG_DIR", dir)
	t.Setenv("QUOTABAR_BASE_URL", "")
	t.Setenv("QUOTABAR_NO_COLOR", "")

	configMu.Lock()
	prev := globalConfig
	globalConfig = nil
	configMu.Unlock()
	t.Cleanup(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig = prev
	})
	return dir
}
