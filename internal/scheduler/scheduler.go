// Package scheduler implements the adaptive per-domain refresh schedule
// (ADR-0003): a domain's next refresh is a fraction of its remaining
// cookie lifetime, clamped to a sane window.
package scheduler

import (
	"time"

	"github.com/pvliesdonk/cookie-injector/internal/cookiestore"
)

const (
	// MinInterval is the shortest adaptive sleep; also the fallback used
	// by the refresh loop when SleepForNext would otherwise return 0
	// after a completed cycle.
	MinInterval = 6 * time.Hour
	// MaxInterval is the longest adaptive sleep.
	MaxInterval = 24 * time.Hour
	// LifetimeFraction is the share of remaining cookie lifetime spent
	// sleeping; the rest is safety margin against a failed refresh.
	LifetimeFraction = 0.75
	// StartupSkipThreshold: if the computed sleep at startup is at least
	// this long, skip the immediate refresh attempt.
	StartupSkipThreshold = 6 * time.Hour
)

// SleepForNext computes how long to sleep before the next refresh attempt
// for domain. It returns 0 when the jar is missing, unreadable, or has no
// currently-valid cookie (refresh immediately); otherwise it returns
// clamp(remaining_lifetime * LifetimeFraction, MinInterval, MaxInterval).
func SleepForNext(domain, cookieDir string, now time.Time) time.Duration {
	cookies, _, err := cookiestore.LoadDomain(domain, cookieDir)
	if err != nil {
		return 0
	}

	nowUnix := now.Unix()
	var minExpiry int64
	found := false
	for _, c := range cookies {
		if c.Expires > nowUnix && (!found || c.Expires < minExpiry) {
			minExpiry = c.Expires
			found = true
		}
	}
	if !found {
		return 0
	}

	lifetime := time.Duration(minExpiry-nowUnix) * time.Second
	interval := time.Duration(float64(lifetime) * LifetimeFraction)

	if interval < MinInterval {
		return MinInterval
	}
	if interval > MaxInterval {
		return MaxInterval
	}
	return interval
}
