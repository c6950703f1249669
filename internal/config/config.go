// Package config loads and validates the YAML site configuration that
// drives the refresh, proxy, and health processes.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AuthType selects how a site's login routine obtains credentials.
type AuthType string

const (
	AuthCredentials AuthType = "credentials"
	AuthOAuth       AuthType = "oauth"
)

// AuthConfig is a site's authentication configuration block.
type AuthConfig struct {
	Type        AuthType `yaml:"type"`
	UsernameEnv string   `yaml:"username_env,omitempty"`
	PasswordEnv string   `yaml:"password_env,omitempty"`
}

// SiteConfig configures one paywalled domain.
type SiteConfig struct {
	Domain   string     `yaml:"domain"`
	LoginURL string     `yaml:"login_url"`
	Auth     AuthConfig `yaml:"auth"`
	// RefreshInterval is advisory only; the adaptive scheduler in
	// internal/scheduler never reads it (see SPEC_FULL.md §4.4 and
	// DESIGN.md). It is still parsed so operators can display it.
	RefreshInterval string `yaml:"refresh_interval,omitempty"`
}

// Config is the top-level sites.yaml document.
type Config struct {
	Sites          []SiteConfig `yaml:"sites"`
	CookieDir      string       `yaml:"cookie_dir,omitempty"`
	NtfyURL        string       `yaml:"ntfy_url,omitempty"`
	HealthcheckURL string       `yaml:"healthcheck_url,omitempty"`
}

// InvalidError is returned for any configuration problem: missing file,
// malformed YAML, empty site list, or a bad auth type.
type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// Load reads and validates the config file at path, defaulting
// CookieDir from the COOKIE_DIR env var (then "/cookies") when unset in
// the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidError{Reason: fmt.Sprintf("cannot read %s: %v", path, err)}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidError{Reason: fmt.Sprintf("cannot parse %s: %v", path, err)}
	}

	if cfg.CookieDir == "" {
		cfg.CookieDir = envOrDefault("COOKIE_DIR", "/cookies")
	}
	if cfg.NtfyURL == "" {
		cfg.NtfyURL = os.Getenv("NTFY_URL")
	}
	if cfg.HealthcheckURL == "" {
		cfg.HealthcheckURL = os.Getenv("HEALTHCHECK_URL")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv resolves the config path from CONFIG_PATH (default
// /config/sites.yaml) and loads it.
func LoadFromEnv() (*Config, error) {
	return Load(envOrDefault("CONFIG_PATH", "/config/sites.yaml"))
}

func validate(cfg *Config) error {
	if len(cfg.Sites) == 0 {
		return &InvalidError{Reason: "must define at least one site"}
	}
	for _, s := range cfg.Sites {
		if s.Domain == "" {
			return &InvalidError{Reason: "site entry missing domain"}
		}
		switch s.Auth.Type {
		case AuthCredentials, AuthOAuth:
		default:
			return &InvalidError{Reason: fmt.Sprintf("site %s: unknown auth type %q", s.Domain, s.Auth.Type)}
		}
		if s.RefreshInterval != "" {
			if _, err := time.ParseDuration(s.RefreshInterval); err != nil {
				return &InvalidError{Reason: fmt.Sprintf("site %s: invalid refresh_interval %q: %v", s.Domain, s.RefreshInterval, err)}
			}
		}
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
