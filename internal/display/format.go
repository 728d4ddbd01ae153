package display

import (
	"github.com/weavex/quotabar/internal/quota"
)

// LowCreditsUSD is the balance under which the label turns yellow.
const LowCreditsUSD = 1.0

// CreditsToColor returns a color name ("green", "yellow", or "red") for a
// computed view.
func CreditsToColor(v quota.View) string {
	// Failures and exhausted balances are red.
	if !v.OK() || v.CreditsUSD <= 0 {
		return "red"
	}
	if v.CreditsUSD < LowCreditsUSD {
		return "yellow"
	}
	return "green"
}
