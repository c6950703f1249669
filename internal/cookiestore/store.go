package cookiestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// path returns the canonical jar path for a domain within cookieDir.
func path(domain, cookieDir string) string {
	return filepath.Join(cookieDir, domain+".json")
}

// Save applies the session-cookie fix-up to cookies, then atomically writes
// the jar to {cookieDir}/{domain}.json via a .json.tmp sibling + rename
// (I2, I5). next_refresh is omitted from metadata when empty.
func Save(domain string, cookies []Cookie, cookieDir string, source RefreshSource, nextRefreshAt string) error {
	now := time.Now().UTC()
	sessionCount := CountSessionCookies(cookies)
	fixed := ApplySessionFixup(cookies, now)

	jar := JarFile{
		Cookies: fixed,
		Metadata: Metadata{
			RefreshedAt:             now.Format("2006-01-02T15:04:05Z"),
			RefreshSource:           source,
			SiteConfig:              domain,
			CookiesCount:            len(fixed),
			SessionCookieWorkaround: sessionCount > 0,
			SessionCookiesConverted: sessionCount,
			NextRefresh:             nextRefreshAt,
		},
	}

	data, err := json.MarshalIndent(jar, "", "  ")
	if err != nil {
		return &StoreIOError{Path: path(domain, cookieDir), Err: err}
	}

	final := path(domain, cookieDir)
	tmp := final + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return &StoreIOError{Path: final, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return &StoreIOError{Path: final, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &StoreIOError{Path: final, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &StoreIOError{Path: final, Err: err}
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return &StoreIOError{Path: final, Err: err}
	}
	return nil
}

// Load reads and parses a jar file at the given path. It returns
// *NotFoundError if the file is absent and *MalformedError if the JSON is
// invalid or lacks a "cookies" key. Metadata is the zero value if the
// "metadata" key is absent (forward-compat, per spec).
func Load(jarPath string) ([]Cookie, Metadata, error) {
	data, err := os.ReadFile(jarPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Metadata{}, &NotFoundError{Path: jarPath}
		}
		return nil, Metadata{}, &StoreIOError{Path: jarPath, Err: err}
	}

	var raw struct {
		Cookies  *[]Cookie `json:"cookies"`
		Metadata *Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Metadata{}, &MalformedError{Path: jarPath, Err: err}
	}
	if raw.Cookies == nil {
		return nil, Metadata{}, &MalformedError{Path: jarPath, Err: fmt.Errorf("missing %q key", "cookies")}
	}

	meta := Metadata{}
	if raw.Metadata != nil {
		meta = *raw.Metadata
	}
	return *raw.Cookies, meta, nil
}

// LoadDomain is a convenience wrapper that loads {cookieDir}/{domain}.json.
func LoadDomain(domain, cookieDir string) ([]Cookie, Metadata, error) {
	return Load(path(domain, cookieDir))
}

// Path exposes the jar file path for a domain, used by callers that load
// by path rather than by domain (e.g. the injector).
func Path(domain, cookieDir string) string {
	return path(domain, cookieDir)
}
