package testenv

import "path/filepath"

// Dirs contains isolated directories for quotabar in tests.
type Dirs struct {
	Base        string
	Config      string
	Credentials string
}

// QuotabarDirs returns conventional test directories rooted at base.
func QuotabarDirs(base string) Dirs {
	config := filepath.Join(base, "config")
	return Dirs{
		Base:        base,
		Config:      config,
		Credentials: filepath.Join(config, "credentials"),
	}
}

// Apply points QUOTABAR_CONFIG_DIR at an isolated directory under base and
// clears the other QUOTABAR_* overrides.
func Apply(setenv func(string, string), base string) Dirs {
	dirs := QuotabarDirs(base)
	setenv("QUOTABAR_CONFIG_DIR", dirs.Config)
	setenv("QUOTABAR_BASE_URL", "")
	setenv("QUOTABAR_NO_COLOR", "")
	return dirs
}
