package quota

import (
	"fmt"
	"math"
	"time"

	// Embedded zone database so DefaultTimeZone resolves identically on
	// machines without a system zoneinfo.
	_ "time/tzdata"
)

// DefaultTimeZone is the reference zone used to turn access_until into a
// calendar date. It is fixed rather than taken from the client locale.
const DefaultTimeZone = "Asia/Shanghai"

// ExpirationLayout renders dates as YY/MM/DD.
const ExpirationLayout = "06/01/02"

// maxEpochSeconds bounds access_until to values time.Time can represent
// without overflowing the millisecond conversion.
const maxEpochSeconds = 1e12

// LoadLocation resolves a zone name, defaulting to DefaultTimeZone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", name, err)
	}
	return loc, nil
}

// DefaultLocation returns the DefaultTimeZone location.
func DefaultLocation() *time.Location {
	loc, err := LoadLocation(DefaultTimeZone)
	if err != nil {
		// tzdata is embedded, so this only happens if the name is mistyped.
		panic(err)
	}
	return loc
}

// FormatExpiration converts access_until (epoch seconds) into a YY/MM/DD
// date in loc. Zero, absent, or unrepresentable values yield SentinelNever.
func FormatExpiration(accessUntil Amount, loc *time.Location) string {
	v := accessUntil.Value
	if !accessUntil.Present || !accessUntil.Finite() || v == 0 || math.Abs(v) > maxEpochSeconds {
		return SentinelNever
	}
	if loc == nil {
		loc = DefaultLocation()
	}
	t := time.UnixMilli(int64(math.Round(v * 1000)))
	return t.In(loc).Format(ExpirationLayout)
}
