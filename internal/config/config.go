package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/weavex/quotabar/internal/quota"
)

type BillingConfig struct {
	BaseURL  string `toml:"base_url" json:"base_url"`
	TimeZone string `toml:"timezone" json:"timezone"`
}

type FetchConfig struct {
	Timeout float64 `toml:"timeout" json:"timeout"`
}

type DisplayConfig struct {
	NoColor bool `toml:"no_color" json:"no_color"`
}

type CredentialsConfig struct {
	UseKeyring bool `toml:"use_keyring" json:"use_keyring"`
}

type ActionBarConfig struct {
	// Actions is the ordered list of action keys shown in the bar. Empty
	// means every known action in its default order.
	Actions []string `toml:"actions" json:"actions"`
}

type Config struct {
	Billing     BillingConfig     `toml:"billing" json:"billing"`
	Fetch       FetchConfig       `toml:"fetch" json:"fetch"`
	Display     DisplayConfig     `toml:"display" json:"display"`
	Credentials CredentialsConfig `toml:"credentials" json:"credentials"`
	ActionBar   ActionBarConfig   `toml:"actionbar" json:"actionbar"`
}

const DefaultBaseURL = "https://api.openai.com/v1"

func DefaultConfig() Config {
	return Config{
		Billing: BillingConfig{
			BaseURL:  DefaultBaseURL,
			TimeZone: quota.DefaultTimeZone,
		},
		Fetch: FetchConfig{
			Timeout: 30.0,
		},
	}
}

func (c Config) clone() Config {
	out := c
	if c.ActionBar.Actions != nil {
		out.ActionBar.Actions = make([]string, len(c.ActionBar.Actions))
		copy(out.ActionBar.Actions, c.ActionBar.Actions)
	}
	return out
}

// Location resolves the configured expiration time zone.
func (c Config) Location() (*time.Location, error) {
	return quota.LoadLocation(c.Billing.TimeZone)
}

var (
	globalConfig *Config
	configMu     sync.RWMutex
)

func Get() Config {
	configMu.RLock()
	if c := globalConfig; c != nil {
		configMu.RUnlock()
		return c.clone()
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()
	if globalConfig != nil {
		return globalConfig.clone()
	}
	c, _ := Load("")
	globalConfig = &c
	return c.clone()
}

func Reload() (Config, error) {
	configMu.Lock()
	defer configMu.Unlock()
	c, err := Load("")
	globalConfig = &c
	return c.clone(), err
}

func set(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	c := cfg.clone()
	globalConfig = &c
}

// Load reads path (the default config file when empty) and applies the
// QUOTABAR_* environment overrides. On a parse error the defaults are
// returned together with the error.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	return applyEnvOverrides(cfg), err
}

// LoadFile reads path without environment overrides. A missing file yields
// the defaults.
func LoadFile(path string) (Config, error) {
	if path == "" {
		path = ConfigFile()
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	if strings.TrimSpace(cfg.Billing.BaseURL) == "" {
		cfg.Billing.BaseURL = DefaultBaseURL
	}
	if _, err := cfg.Location(); err != nil {
		bad := cfg.Billing.TimeZone
		cfg.Billing.TimeZone = quota.DefaultTimeZone
		return cfg, fmt.Errorf("config %s: billing.timezone %q: %w", path, bad, err)
	}
	return cfg, nil
}

func Save(cfg Config, path string) error {
	if path == "" {
		path = ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv("QUOTABAR_BASE_URL")); v != "" {
		cfg.Billing.BaseURL = v
	}
	if os.Getenv("QUOTABAR_NO_COLOR") != "" {
		cfg.Display.NoColor = true
	}
	return cfg
}
