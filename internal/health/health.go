// Package health implements the read-only health aggregator (C8): it scans
// the cookie directory, classifies each jar with the same logic the
// injection policy uses (C3), and rolls the per-site statuses up into one
// overall status.
package health

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pvliesdonk/cookie-injector/internal/cookiestore"
	"github.com/pvliesdonk/cookie-injector/internal/freshness"
)

// SiteReport is the per-domain block of the health response.
type SiteReport struct {
	Status                  freshness.Status `json:"status"`
	CookiesCount            int              `json:"cookies_count"`
	CookiesValidUntil       *string          `json:"cookies_valid_until"`
	TimeRemainingHours      float64          `json:"time_remaining_hours"`
	LastRefresh             string           `json:"last_refresh,omitempty"`
	NextRefresh             string           `json:"next_refresh,omitempty"`
	SessionCookieWorkaround bool             `json:"session_cookie_workaround"`
}

// Report is the full health response body.
type Report struct {
	Status    freshness.Status      `json:"status"`
	Timestamp string                `json:"timestamp"`
	Sites     map[string]SiteReport `json:"sites"`
}

// jarSuffix is the only suffix that counts as a jar file; ".json.tmp"
// siblings of an in-progress atomic write are never surfaced (I2).
const jarSuffix = ".json"

// StatusDegraded is the overall status whenever there is at least one
// jar, not every jar is ok, and not every jar is error (e.g. all expiring,
// or one ok and one expired). It has no per-site meaning —
// Classify never returns it — only Aggregate's roll-up does.
const StatusDegraded freshness.Status = "degraded"

// Aggregate scans cookieDir for jar files and computes the full health
// report. A directory read failure yields an empty, all-error report
// rather than an error return, since health is a best-effort surface.
func Aggregate(cookieDir string, now time.Time) Report {
	domains := listDomains(cookieDir)

	sites := make(map[string]SiteReport, len(domains))
	for _, domain := range domains {
		sites[domain] = siteReport(domain, cookieDir, now)
	}

	return Report{
		Status:    overallStatus(sites),
		Timestamp: now.UTC().Format("2006-01-02T15:04:05Z"),
		Sites:     sites,
	}
}

// listDomains glob-matches "*.json" in cookieDir, which excludes
// ".json.tmp" siblings by construction (I2) without needing to special-case
// them.
func listDomains(cookieDir string) []string {
	entries, err := filepath.Glob(filepath.Join(cookieDir, "*"+jarSuffix))
	if err != nil {
		return nil
	}

	domains := make([]string, 0, len(entries))
	for _, e := range entries {
		name := filepath.Base(e)
		if !strings.HasSuffix(name, jarSuffix) {
			continue
		}
		domains = append(domains, strings.TrimSuffix(name, jarSuffix))
	}
	sort.Strings(domains)
	return domains
}

func siteReport(domain, cookieDir string, now time.Time) SiteReport {
	cookies, meta, err := cookiestore.LoadDomain(domain, cookieDir)
	if err != nil {
		return SiteReport{Status: freshness.StatusError}
	}

	status, valid := freshness.Classify(cookies, now)
	if status == freshness.StatusExpired {
		return SiteReport{
			Status:                  freshness.StatusExpired,
			LastRefresh:             meta.RefreshedAt,
			NextRefresh:             meta.NextRefresh,
			SessionCookieWorkaround: meta.SessionCookieWorkaround,
		}
	}

	earliest := earliestExpiry(valid)
	validUntil := time.Unix(earliest, 0).UTC().Format("2006-01-02T15:04:05Z")
	remaining := roundTo1Decimal(float64(earliest-now.Unix()) / 3600)

	return SiteReport{
		Status:                  status,
		CookiesCount:            len(valid),
		CookiesValidUntil:       &validUntil,
		TimeRemainingHours:      remaining,
		LastRefresh:             meta.RefreshedAt,
		NextRefresh:             meta.NextRefresh,
		SessionCookieWorkaround: meta.SessionCookieWorkaround,
	}
}

func earliestExpiry(cookies []cookiestore.Cookie) int64 {
	min := cookies[0].Expires
	for _, c := range cookies[1:] {
		if c.Expires < min {
			min = c.Expires
		}
	}
	return min
}

func roundTo1Decimal(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}

// overallStatus: error if there are no sites or every site is error; ok if
// every site is ok; degraded otherwise.
func overallStatus(sites map[string]SiteReport) freshness.Status {
	if len(sites) == 0 {
		return freshness.StatusError
	}

	allError, allOK := true, true
	for _, s := range sites {
		if s.Status != freshness.StatusError {
			allError = false
		}
		if s.Status != freshness.StatusOK {
			allOK = false
		}
	}

	switch {
	case allError:
		return freshness.StatusError
	case allOK:
		return freshness.StatusOK
	default:
		return StatusDegraded
	}
}
