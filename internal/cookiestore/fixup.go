package cookiestore

import "time"

// ApplySessionFixup returns a new slice where every cookie with
// Expires == SessionExpires is given an explicit 30-day expiry (ADR-0002).
// now is sampled once, so every session cookie in a single call gets the
// same expiry. The input slice and its elements are never mutated.
func ApplySessionFixup(cookies []Cookie, now time.Time) []Cookie {
	fixedAt := now.Unix() + SessionCookieTTLSeconds

	out := make([]Cookie, len(cookies))
	for i, c := range cookies {
		if c.Expires == SessionExpires {
			c.Expires = fixedAt
		}
		out[i] = c
	}
	return out
}

// CountSessionCookies reports how many input cookies were session cookies
// (Expires == SessionExpires) before any fix-up was applied. The workaround
// flag in metadata reflects the input, not the output (see design notes).
func CountSessionCookies(cookies []Cookie) int {
	n := 0
	for _, c := range cookies {
		if c.Expires == SessionExpires {
			n++
		}
	}
	return n
}
