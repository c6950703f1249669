// Package cookiestore implements atomic on-disk persistence of per-domain
// cookie jars (ADR-0004 jar file format) with the ADR-0002 session-cookie
// workaround.
package cookiestore

// SessionExpires is the sentinel value meaning "session cookie, no expiry".
const SessionExpires int64 = -1

// SessionCookieTTLSeconds is how far into the future a session cookie's
// expiry is pushed by ApplySessionFixup (30 days).
const SessionCookieTTLSeconds int64 = 30 * 24 * 3600

// Cookie is a single stored cookie. Expires is an absolute second count
// since the epoch; SessionExpires (-1) marks a session cookie.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Expires  int64  `json:"expires"`
	Path     string `json:"path,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	HTTPOnly bool   `json:"httpOnly,omitempty"`
	SameSite string `json:"sameSite,omitempty"`
}

// RefreshSource records why a jar was written.
type RefreshSource string

const (
	SourceScheduled RefreshSource = "scheduled"
	SourceManual    RefreshSource = "manual"
	SourceStartup   RefreshSource = "startup"
)

// Metadata is the ADR-0004 metadata block stored alongside a jar's cookies.
type Metadata struct {
	RefreshedAt             string        `json:"refreshed_at,omitempty"`
	RefreshSource           RefreshSource `json:"refresh_source,omitempty"`
	SiteConfig              string        `json:"site_config,omitempty"`
	CookiesCount            int           `json:"cookies_count"`
	SessionCookieWorkaround bool          `json:"session_cookie_workaround"`
	SessionCookiesConverted int           `json:"session_cookies_converted"`
	NextRefresh             string        `json:"next_refresh,omitempty"`
}

// JarFile is the literal on-disk JSON shape of {domain}.json.
type JarFile struct {
	Cookies  []Cookie `json:"cookies"`
	Metadata Metadata `json:"metadata"`
}
