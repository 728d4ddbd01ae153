package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "quotabar"

// ConfigDir is $QUOTABAR_CONFIG_DIR when set, otherwise quotabar under the
// XDG config home.
func ConfigDir() string {
	if v := os.Getenv("QUOTABAR_CONFIG_DIR"); v != "" {
		return v
	}
	return filepath.Join(xdg.ConfigHome, appName)
}

func ConfigFile() string { return filepath.Join(ConfigDir(), "config.toml") }

func CredentialsDir() string { return filepath.Join(ConfigDir(), "credentials") }

// Paths groups the locations reported by `quotabar config path`.
type Paths struct {
	ConfigDir      string `json:"config_dir"`
	ConfigFile     string `json:"config_file"`
	CredentialsDir string `json:"credentials_dir"`
}

func CurrentPaths() Paths {
	dir := ConfigDir()
	return Paths{
		ConfigDir:      dir,
		ConfigFile:     filepath.Join(dir, "config.toml"),
		CredentialsDir: filepath.Join(dir, "credentials"),
	}
}
