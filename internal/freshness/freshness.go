// Package freshness classifies a cookie jar as expired, expiring, or ok
// based on the earliest not-yet-expired cookie (ADR-0001).
package freshness

import (
	"time"

	"github.com/pvliesdonk/cookie-injector/internal/cookiestore"
)

// Status is the hybrid-failure-handling classification of a jar.
type Status string

const (
	StatusExpired  Status = "expired"
	StatusExpiring Status = "expiring"
	StatusOK       Status = "ok"
	// StatusError is produced only by the health aggregator on load
	// failure; Classify itself never returns it.
	StatusError Status = "error"
)

// ExpiringThreshold is the window inside which a jar is "expiring" rather
// than "ok".
const ExpiringThreshold = 24 * time.Hour

// Classify splits cookies into the not-yet-expired subset (preserving
// input order) and derives a status from the earliest expiry in that
// subset. Cookies with a missing or session-sentinel expiry are never
// valid.
func Classify(cookies []cookiestore.Cookie, now time.Time) (Status, []cookiestore.Cookie) {
	nowUnix := now.Unix()

	var valid []cookiestore.Cookie
	for _, c := range cookies {
		if c.Expires > nowUnix {
			valid = append(valid, c)
		}
	}

	if len(valid) == 0 {
		return StatusExpired, nil
	}

	minExpiry := earliestExpiry(valid)
	if time.Duration(minExpiry-nowUnix)*time.Second < ExpiringThreshold {
		return StatusExpiring, valid
	}
	return StatusOK, valid
}

// earliestExpiry returns the smallest Expires value among cookies.
// cookies must be non-empty.
func earliestExpiry(cookies []cookiestore.Cookie) int64 {
	min := cookies[0].Expires
	for _, c := range cookies[1:] {
		if c.Expires < min {
			min = c.Expires
		}
	}
	return min
}
