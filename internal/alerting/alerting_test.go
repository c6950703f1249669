package alerting

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNotifyNoopWithoutURL(t *testing.T) {
	if err := Notify(context.Background(), "nrc.nl", "boom", ""); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestNotifySendsExpectedHeaders(t *testing.T) {
	var gotTitle, gotPriority, gotTags, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotPriority = r.Header.Get("Priority")
		gotTags = r.Header.Get("Tags")
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := Notify(context.Background(), "nrc.nl", "timeout", srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPriority != "high" || gotTags != "warning,cookie-injector" {
		t.Fatalf("unexpected headers: priority=%q tags=%q", gotPriority, gotTags)
	}
	if gotTitle == "" {
		t.Fatalf("expected a Title header")
	}
	if gotBody == "" {
		t.Fatalf("expected a non-empty body")
	}
}

func TestLivenessNoopWithoutURL(t *testing.T) {
	if err := Liveness(context.Background(), "nrc.nl", true, ""); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestLivenessSuccessVsFail(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := Liveness(context.Background(), "nrc.nl", true, srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/" {
		t.Fatalf("expected success ping to hit base path, got %q", gotPath)
	}

	if err := Liveness(context.Background(), "nrc.nl", false, srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/fail" {
		t.Fatalf("expected failure ping to hit /fail, got %q", gotPath)
	}
}
