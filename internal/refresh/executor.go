// Package refresh implements the refresh executor (C5) and the per-site
// refresh loop (C6): driving a site's login routine under a bounded
// global concurrency gate with retry-and-backoff, persisting on success,
// and never touching the on-disk jar on failure.
package refresh

import (
	"context"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/semaphore"

	"github.com/pvliesdonk/cookie-injector/internal/browser"
	"github.com/pvliesdonk/cookie-injector/internal/config"
	"github.com/pvliesdonk/cookie-injector/internal/cookiestore"
	"github.com/pvliesdonk/cookie-injector/internal/sites"
)

// MaxConcurrentBrowsers is the global cap on simultaneous headless
// browser instances, shared by every site's refresh loop.
const MaxConcurrentBrowsers = 3

// MaxAttempts is the total number of login attempts per refresh cycle.
const MaxAttempts = 3

// Gate is the semaphore shared by all refresh loops, acquired only for
// the duration of one login attempt.
type Gate = *semaphore.Weighted

// NewGate returns a concurrency gate sized for MaxConcurrentBrowsers.
func NewGate() Gate {
	return semaphore.NewWeighted(MaxConcurrentBrowsers)
}

// Refresh drives one full refresh cycle for site: up to MaxAttempts login
// attempts, each gated by gate and separated by exponential backoff, with
// a successful attempt persisted immediately via cookiestore.Save. On
// exhaustion it returns *FailedError and leaves the existing jar
// untouched (I5).
func Refresh(ctx context.Context, site config.SiteConfig, gate Gate, cookieDir string) error {
	return RefreshWith(ctx, site, gate, cookieDir, sites.Lookup)
}

// LoginResolver resolves a domain to its login routine; sites.Lookup in
// production, a fake in tests that need to drive the retry/backoff loop
// without a real browser.
type LoginResolver func(domain string) (browser.LoginFunc, bool)

// RefreshWith is Refresh with an injectable LoginResolver.
func RefreshWith(ctx context.Context, site config.SiteConfig, gate Gate, cookieDir string, resolve LoginResolver) error {
	loginFn, ok := resolve(site.Domain)
	if !ok {
		return &NoLoginScriptError{Domain: site.Domain}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 5 * time.Second
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		cookies, err := attemptLogin(ctx, site, gate, loginFn)
		if err == nil {
			return cookiestore.Save(site.Domain, cookies, cookieDir, cookiestore.SourceScheduled, "")
		}
		lastErr = err

		if attempt < MaxAttempts {
			select {
			case <-time.After(bo.NextBackOff()):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return &FailedError{Domain: site.Domain, LastErr: lastErr, Attempts: MaxAttempts}
}

// runLogin launches the headless browser and drives loginFn; overridden in
// tests that need to exercise Refresh's retry/backoff/gate behavior without
// a real browser.
var runLogin = browser.RunLogin

// attemptLogin acquires the concurrency gate, drives one login attempt,
// and releases the gate before returning — back-off waits between
// attempts happen outside the gated section.
func attemptLogin(ctx context.Context, site config.SiteConfig, gate Gate, loginFn browser.LoginFunc) ([]cookiestore.Cookie, error) {
	if err := gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer gate.Release(1)

	bsite := browser.SiteConfig{
		Domain:      site.Domain,
		LoginURL:    site.LoginURL,
		UsernameEnv: site.Auth.UsernameEnv,
		PasswordEnv: site.Auth.PasswordEnv,
	}
	return runLogin(ctx, bsite, loginFn)
}
