package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/weavex/quotabar/internal/quota"
)

// setters maps the dotted keys accepted by Set to the field they update.
var setters = map[string]func(*Config, string) error{
	"billing.base_url": func(c *Config, v string) error {
		u, err := url.Parse(v)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%q is not an http(s) URL", v)
		}
		c.Billing.BaseURL = strings.TrimRight(v, "/")
		return nil
	},
	"billing.timezone": func(c *Config, v string) error {
		if _, err := quota.LoadLocation(v); err != nil {
			return err
		}
		c.Billing.TimeZone = v
		return nil
	},
	"fetch.timeout": func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%q is not a positive number of seconds", v)
		}
		c.Fetch.Timeout = f
		return nil
	},
	"display.no_color": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", v)
		}
		c.Display.NoColor = b
		return nil
	},
	"credentials.use_keyring": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", v)
		}
		c.Credentials.UseKeyring = b
		return nil
	},
}

// SettableKeys returns the keys accepted by Set, sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Set updates the field named by a dotted key such as "fetch.timeout".
// cfg is left untouched when value does not parse.
func (c *Config) Set(key, value string) error {
	fn, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown key %q (one of: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	if err := fn(c, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}
