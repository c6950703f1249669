// Package sites holds the static registry of per-domain login routines.
// A routine implements browser.LoginFunc: given a fresh page and the
// site's configuration, it drives the login flow and returns cookies.
package sites

import "github.com/pvliesdonk/cookie-injector/internal/browser"

// registry maps a registered domain to its login routine. New sites are
// added here, at package-init time, the way the spec's "static registry
// keyed by domain" resolves the original dynamically-imported scripts.
var registry = map[string]browser.LoginFunc{
	"nrc.nl": loginNRC,
}

// Lookup resolves the login routine for domain. ok is false when no
// routine is registered — the caller (internal/refresh) turns that into
// a terminal NoLoginScriptError without consuming a retry.
func Lookup(domain string) (browser.LoginFunc, bool) {
	fn, ok := registry[domain]
	return fn, ok
}
