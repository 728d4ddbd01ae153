package display

import "github.com/weavex/quotabar/internal/config"

// QuotaJSON is the machine-readable form of one refresh.
type QuotaJSON struct {
	Phase      string   `json:"phase"`
	Credits    string   `json:"credits"`
	CreditsUSD *float64 `json:"credits_usd"`
	Expiration string   `json:"expiration"`
	Error      string   `json:"error,omitempty"`
}

// ActionJSON is one configured action bar entry.
type ActionJSON struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// KeyStatusJSON reports whether an API key is stored and where.
type KeyStatusJSON struct {
	Configured bool   `json:"configured"`
	Backend    string `json:"backend"`
	Location   string `json:"location,omitempty"`
}

// ConfigShowJSON is the current configuration plus the file it came from.
type ConfigShowJSON struct {
	config.Config
	Path string `json:"path"`
}

type ActionResultJSON struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
