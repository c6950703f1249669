// Package canonical maps a raw HTTP host to its registered (public-suffix)
// domain, e.g. "www.nrc.nl" -> "nrc.nl".
package canonical

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// UnparseableHostError means host has no registrable domain under the
// public suffix list (bare IP literals, "localhost", single-label hosts).
type UnparseableHostError struct {
	Host string
}

func (e *UnparseableHostError) Error() string {
	return fmt.Sprintf("cannot extract canonical domain from host: %q", e.Host)
}

// Canonicalise returns the registered domain for host, stripping any port
// and leading/trailing dots first. It collapses arbitrarily deep
// subdomains (a.b.c.nrc.nl -> nrc.nl).
func Canonicalise(host string) (string, error) {
	h := host
	if strings.Contains(h, ":") {
		if stripped, _, err := net.SplitHostPort(h); err == nil {
			h = stripped
		}
	}
	h = strings.Trim(h, ".")
	h = strings.ToLower(h)

	if h == "" || net.ParseIP(h) != nil {
		return "", &UnparseableHostError{Host: host}
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(h)
	if err != nil {
		return "", &UnparseableHostError{Host: host}
	}
	return domain, nil
}
