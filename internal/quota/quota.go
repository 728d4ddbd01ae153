// Package quota computes the remaining prepaid credit of a billing account
// from its usage and subscription payloads.
package quota

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Sentinels stand in for values that could not be computed.
const (
	SentinelUnavailable  = "unavailable"
	SentinelNetworkError = "network-error"
	SentinelNever        = "never"
)

// Usage is the payload of GET /dashboard/billing/usage.
type Usage struct {
	TotalUsageCents Amount `json:"total_usage"`
}

// Subscription is the payload of GET /dashboard/billing/subscription.
// Some OpenAI-compatible proxies only report system_hard_limit_usd.
type Subscription struct {
	AccessUntil        Amount `json:"access_until"`
	HardLimitUSD       Amount `json:"hard_limit_usd"`
	SystemHardLimitUSD Amount `json:"system_hard_limit_usd"`
}

// HardLimit returns hard_limit_usd, falling back to system_hard_limit_usd.
func (s Subscription) HardLimit() Amount {
	if s.HardLimitUSD.Present {
		return s.HardLimitUSD
	}
	return s.SystemHardLimitUSD
}

// Failure classifies why a View holds sentinels.
type Failure int

const (
	FailureNone Failure = iota
	FailureNetwork
	FailureComputation
)

func (f Failure) String() string {
	switch f {
	case FailureNetwork:
		return "network"
	case FailureComputation:
		return "computation"
	default:
		return "none"
	}
}

// View is the displayable result of one refresh.
type View struct {
	Credits    string
	CreditsUSD float64
	Expiration string
	Failure    Failure
}

// OK reports whether the view holds a computed balance.
func (v View) OK() bool {
	return v.Failure == FailureNone
}

// Label renders the compact "remaining: X (expiry)" form.
func (v View) Label() string {
	return fmt.Sprintf("remaining: %s (%s)", v.Credits, v.Expiration)
}

// NetworkFailure is the view shown when either request failed.
func NetworkFailure() View {
	return View{
		Credits:    SentinelNetworkError,
		Expiration: SentinelNetworkError,
		Failure:    FailureNetwork,
	}
}

// Compute derives the remaining credit as hard limit minus usage, with usage
// reported in cents. A non-finite result yields SentinelUnavailable and an
// error wrapping ErrComputation; the expiration is still formatted.
func Compute(usage Usage, sub Subscription, loc *time.Location) (View, error) {
	view := View{Expiration: FormatExpiration(sub.AccessUntil, loc)}

	limit := sub.HardLimit()
	remaining := limit.Value - usage.TotalUsageCents.Value/100
	if math.IsNaN(remaining) || math.IsInf(remaining, 0) {
		view.Credits = SentinelUnavailable
		view.Failure = FailureComputation
		return view, fmt.Errorf("%w: hard limit %v, usage %v cents", ErrComputation, limit.Value, usage.TotalUsageCents.Value)
	}

	view.CreditsUSD = Round2(remaining)
	view.Credits = FormatCredits(view.CreditsUSD)
	return view, nil
}

// Round2 rounds to two decimal places, normalizing negative zero.
func Round2(x float64) float64 {
	r := math.Round(x*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// FormatCredits renders a dollar amount with exactly two decimals.
func FormatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
