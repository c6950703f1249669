package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "sites.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadValid(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, `
sites:
  - domain: nrc.nl
    login_url: https://nrc.nl/login
    auth:
      type: credentials
      username_env: NRC_USER
      password_env: NRC_PASS
    refresh_interval: 12h
cookie_dir: /cookies
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].Domain != "nrc.nl" {
		t.Fatalf("unexpected sites: %+v", cfg.Sites)
	}
	if cfg.CookieDir != "/cookies" {
		t.Fatalf("unexpected cookie_dir: %q", cfg.CookieDir)
	}
}

func TestLoadEmptySitesIsFatal(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "sites: []\n")
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for empty sites")
	}
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadBadAuthTypeIsFatal(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, `
sites:
  - domain: nrc.nl
    login_url: https://nrc.nl/login
    auth:
      type: bogus
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for bad auth type")
	}
}

func TestLoadCookieDirFromEnv(t *testing.T) {
	t.Setenv("COOKIE_DIR", "/custom")
	dir := t.TempDir()
	p := writeConfig(t, dir, `
sites:
  - domain: nrc.nl
    login_url: https://nrc.nl/login
    auth: { type: credentials }
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CookieDir != "/custom" {
		t.Fatalf("expected env COOKIE_DIR to apply, got %q", cfg.CookieDir)
	}
}
