// Package injector implements the request-time cookie injection policy
// (C7, ADR-0001 "hybrid failure handling") as a pair of goproxy hooks: one
// on the request path that injects a Cookie header or short-circuits with
// a 502, and one on the response path that stamps the chosen status onto
// the upstream response.
package injector

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/elazarl/goproxy"
	"github.com/rs/zerolog/log"

	"github.com/pvliesdonk/cookie-injector/internal/canonical"
	"github.com/pvliesdonk/cookie-injector/internal/cookiestore"
	"github.com/pvliesdonk/cookie-injector/internal/freshness"
)

// StatusHeader is stamped onto the upstream response on successful
// injection, and onto the synthesised 502 response on short-circuit.
const StatusHeader = "X-Cookie-Injector-Status"

// Addon holds the configuration shared by the request and response hooks.
type Addon struct {
	CookieDir string
}

// New returns an Addon reading jars from cookieDir.
func New(cookieDir string) *Addon {
	return &Addon{CookieDir: cookieDir}
}

// Request is the goproxy request hook: it rewrites req's Cookie header on
// a fresh-enough jar, or short-circuits with a synthesised 502 response.
// Non-paywall hosts (unparseable under the public suffix list) pass
// through untouched.
func (a *Addon) Request(req *http.Request, ctx *goproxy.ProxyCtx) (*http.Request, *http.Response) {
	host := req.Host
	if h, _, err := splitHostPort(host); err == nil {
		host = h
	}

	domain, err := canonical.Canonicalise(host)
	if err != nil {
		log.Debug().Str("host", host).Msg("cannot_extract_domain_skipping")
		return req, nil
	}

	jarPath := cookiestore.Path(domain, a.CookieDir)

	cookies, _, err := cookiestore.Load(jarPath)
	if err != nil {
		reason := "error"
		var nf *cookiestore.NotFoundError
		if errors.As(err, &nf) {
			reason = "missing"
		}
		return req, shortCircuit(req, domain, reason)
	}

	status, valid := freshness.Classify(cookies, nowFunc())
	if status == freshness.StatusExpired {
		return req, shortCircuit(req, domain, "expired")
	}

	req.Header.Set("Cookie", formatCookieHeader(valid))
	ctx.UserData = statusValue{status: string(status)}
	log.Info().Str("domain", domain).Str("status", string(status)).Int("count", len(valid)).Msg("cookies_injected")
	return req, nil
}

// Response is the goproxy response hook: it stamps StatusHeader onto the
// upstream response for a successfully injected request. resp is nil when
// the upstream round trip itself failed; that case is left untouched.
func (a *Addon) Response(resp *http.Response, ctx *goproxy.ProxyCtx) *http.Response {
	if resp == nil {
		return resp
	}
	if sv, ok := ctx.UserData.(statusValue); ok {
		resp.Header.Set(StatusHeader, sv.status)
	}
	return resp
}

type statusValue struct {
	status string
}

// shortCircuitBody is the JSON body shape for a short-circuited request.
type shortCircuitBody struct {
	Error   string `json:"error"`
	Domain  string `json:"domain"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func shortCircuit(req *http.Request, domain, reason string) *http.Response {
	body := shortCircuitBody{
		Error:   "cookie_injector_no_valid_cookies",
		Domain:  domain,
		Message: "No valid authentication cookies available. Reason: " + reason,
		Status:  reason,
	}
	data, _ := json.MarshalIndent(body, "", "  ")

	resp := goproxy.NewResponse(req, goproxy.ContentTypeJson, http.StatusBadGateway, string(data))
	resp.Header.Set(StatusHeader, reason)
	log.Warn().Str("domain", domain).Str("reason", reason).Msg("returned_502")
	return resp
}

func formatCookieHeader(cookies []cookiestore.Cookie) string {
	parts := make([]string, len(cookies))
	for i, c := range cookies {
		parts[i] = c.Name + "=" + c.Value
	}
	return strings.Join(parts, "; ")
}

