package sites

import (
	"context"
	"fmt"
	"os"

	"github.com/go-rod/rod"

	"github.com/pvliesdonk/cookie-injector/internal/browser"
	"github.com/pvliesdonk/cookie-injector/internal/cookiestore"
)

// MissingCredentialsError means the env vars named in a site's auth
// config were not set when its login routine ran.
type MissingCredentialsError struct {
	Domain      string
	UsernameEnv string
	PasswordEnv string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("missing credentials for %s: %s / %s", e.Domain, e.UsernameEnv, e.PasswordEnv)
}

// loginNRC performs the nrc.nl login flow and returns the resulting
// cookies. It mirrors the original Playwright script: navigate to the
// login page, fill the credential form, submit, wait for the post-login
// redirect, then read back the browser's cookie jar.
func loginNRC(ctx context.Context, page *rod.Page, site browser.SiteConfig) ([]cookiestore.Cookie, error) {
	usernameEnv := site.UsernameEnv
	if usernameEnv == "" {
		usernameEnv = "NRC_USER"
	}
	passwordEnv := site.PasswordEnv
	if passwordEnv == "" {
		passwordEnv = "NRC_PASS"
	}

	username := os.Getenv(usernameEnv)
	password := os.Getenv(passwordEnv)
	if username == "" || password == "" {
		return nil, &MissingCredentialsError{Domain: site.Domain, UsernameEnv: usernameEnv, PasswordEnv: passwordEnv}
	}

	if err := page.Navigate(site.LoginURL); err != nil {
		return nil, fmt.Errorf("navigate to login page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for login page load: %w", err)
	}

	usernameField, err := page.Element(`input[name="username"]`)
	if err != nil {
		return nil, fmt.Errorf("find username field: %w", err)
	}
	if err := usernameField.Input(username); err != nil {
		return nil, fmt.Errorf("fill username: %w", err)
	}

	passwordField, err := page.Element(`input[name="password"]`)
	if err != nil {
		return nil, fmt.Errorf("find password field: %w", err)
	}
	if err := passwordField.Input(password); err != nil {
		return nil, fmt.Errorf("fill password: %w", err)
	}

	submit, err := page.Element(`button[type="submit"]`)
	if err != nil {
		return nil, fmt.Errorf("find submit button: %w", err)
	}
	if err := submit.Click("left", 1); err != nil {
		return nil, fmt.Errorf("click submit: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for post-login navigation: %w", err)
	}

	return browser.CookiesFromPage(page)
}
