// Package browser drives a headless Chromium instance via go-rod to run a
// site's login routine and extract the resulting cookies.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/pvliesdonk/cookie-injector/internal/cookiestore"
)

// NavigationTimeout is the single deadline for one whole login attempt:
// browser connection, page creation and the login routine share it.
// Individual navigation steps inside the routine have no separate bound.
const NavigationTimeout = 30 * time.Second

// SiteConfig is the subset of config.SiteConfig a login routine needs. It
// is defined here, rather than imported from internal/config, to avoid an
// import cycle (config has no business depending on browser).
type SiteConfig struct {
	Domain      string
	LoginURL    string
	UsernameEnv string
	PasswordEnv string
}

// LoginFunc drives a freshly opened page through a site's login flow and
// returns the resulting cookies.
type LoginFunc func(ctx context.Context, page *rod.Page, site SiteConfig) ([]cookiestore.Cookie, error)

// Error wraps any failure launching or driving the headless browser.
type Error struct {
	Domain string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("browser error for %s: %v", e.Domain, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// RunLogin launches a fresh headless browser, opens one page, runs fn, and
// closes the browser on every exit path.
func RunLogin(ctx context.Context, site SiteConfig, fn LoginFunc) ([]cookiestore.Cookie, error) {
	launchCtx, cancel := context.WithTimeout(ctx, NavigationTimeout)
	defer cancel()

	l := launcher.New().Headless(true)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, &Error{Domain: site.Domain, Err: err}
	}

	br := rod.New().ControlURL(controlURL).Context(launchCtx)
	if err := br.Connect(); err != nil {
		l.Kill()
		return nil, &Error{Domain: site.Domain, Err: err}
	}
	defer br.Close()

	page, err := br.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, &Error{Domain: site.Domain, Err: err}
	}
	defer page.Close()

	return runFn(launchCtx, page, site, fn)
}

// runFn invokes fn and recovers a panic at this attempt boundary, turning
// it into a returned *Error so one bad login routine fails only the
// current attempt instead of crashing the whole process (the caller in
// internal/refresh retries on any returned error).
func runFn(ctx context.Context, page *rod.Page, site SiteConfig, fn LoginFunc) (cookies []cookiestore.Cookie, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Domain: site.Domain, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	cookies, err = fn(ctx, page, site)
	if err != nil {
		return nil, &Error{Domain: site.Domain, Err: err}
	}
	return cookies, nil
}

// CookiesFromPage converts rod's native cookie type into our persisted
// Cookie shape. rod reports session cookies with Expires == 0; we map
// that onto our SessionExpires (-1) sentinel so cookiestore.ApplySessionFixup
// recognizes them.
func CookiesFromPage(page *rod.Page) ([]cookiestore.Cookie, error) {
	raw, err := page.Cookies(nil)
	if err != nil {
		return nil, err
	}

	out := make([]cookiestore.Cookie, 0, len(raw))
	for _, c := range raw {
		expires := cookiestore.SessionExpires
		if float64(c.Expires) > 0 {
			expires = int64(c.Expires)
		}
		out = append(out, cookiestore.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Expires:  expires,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: string(c.SameSite),
		})
	}
	return out, nil
}
