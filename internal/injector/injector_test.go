package injector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elazarl/goproxy"

	"github.com/pvliesdonk/cookie-injector/internal/cookiestore"
)

func newReq(t *testing.T, host string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "https://"+host+"/", nil)
	req.Host = host
	return req
}

func TestRequestPassesThroughUnparseableHost(t *testing.T) {
	a := New(t.TempDir())
	req := newReq(t, "localhost")

	outReq, resp := a.Request(req, &goproxy.ProxyCtx{})
	if resp != nil {
		t.Fatalf("expected pass-through, got short-circuit response")
	}
	if outReq.Header.Get("Cookie") != "" {
		t.Fatalf("expected no Cookie header set for unparseable host")
	}
}

func TestRequestShortCircuitsOnMissingJar(t *testing.T) {
	a := New(t.TempDir())
	req := newReq(t, "www.nrc.nl")

	_, resp := a.Request(req, &goproxy.ProxyCtx{})
	assertShortCircuit(t, resp, "nrc.nl", "missing")
}

func TestRequestShortCircuitsOnExpiredJar(t *testing.T) {
	dir := t.TempDir()
	a := New(dir)
	cookiestore.Save("nrc.nl", []cookiestore.Cookie{{Name: "s", Value: "v", Expires: time.Now().Add(-time.Hour).Unix()}}, dir, cookiestore.SourceManual, "")

	req := newReq(t, "www.nrc.nl")
	_, resp := a.Request(req, &goproxy.ProxyCtx{})
	assertShortCircuit(t, resp, "nrc.nl", "expired")
}

func TestRequestInjectsCookieHeaderOnFreshJar(t *testing.T) {
	dir := t.TempDir()
	a := New(dir)
	cookiestore.Save("nrc.nl", []cookiestore.Cookie{{Name: "s", Value: "v", Expires: time.Now().Add(48 * time.Hour).Unix()}}, dir, cookiestore.SourceManual, "")

	req := newReq(t, "www.nrc.nl")
	ctx := &goproxy.ProxyCtx{}
	outReq, resp := a.Request(req, ctx)
	if resp != nil {
		t.Fatalf("expected no short-circuit, got %+v", resp)
	}
	if got := outReq.Header.Get("Cookie"); got != "s=v" {
		t.Fatalf("expected Cookie header 's=v', got %q", got)
	}

	upstream := &http.Response{Header: http.Header{}}
	final := a.Response(upstream, ctx)
	if final.Header.Get(StatusHeader) != "ok" {
		t.Fatalf("expected status header 'ok' on response, got %q", final.Header.Get(StatusHeader))
	}
	if outReq.Header.Get(StatusHeader) != "" {
		t.Fatalf("status header must not leak onto the forwarded request")
	}
}

func TestResponseNoopWithoutUserData(t *testing.T) {
	a := New(t.TempDir())
	resp := &http.Response{Header: http.Header{}}
	got := a.Response(resp, &goproxy.ProxyCtx{})
	if got.Header.Get(StatusHeader) != "" {
		t.Fatalf("expected no status header without prior request hook")
	}
}

func assertShortCircuit(t *testing.T, resp *http.Response, domain, reason string) {
	t.Helper()
	if resp == nil {
		t.Fatal("expected a short-circuit response")
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if resp.Header.Get(StatusHeader) != reason {
		t.Fatalf("expected status header %q, got %q", reason, resp.Header.Get(StatusHeader))
	}
	var body shortCircuitBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Domain != domain || body.Status != reason {
		t.Fatalf("unexpected body: %+v", body)
	}
}
