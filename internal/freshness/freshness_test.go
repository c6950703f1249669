package freshness

import (
	"testing"
	"time"

	"github.com/pvliesdonk/cookie-injector/internal/cookiestore"
)

func cookieAt(name string, delta time.Duration, now time.Time) cookiestore.Cookie {
	return cookiestore.Cookie{Name: name, Expires: now.Add(delta).Unix()}
}

func TestClassify(t *testing.T) {
	now := time.Now()

	t.Run("empty jar is expired", func(t *testing.T) {
		status, valid := Classify(nil, now)
		if status != StatusExpired || len(valid) != 0 {
			t.Fatalf("got %v, %v", status, valid)
		}
	})

	t.Run("all expired", func(t *testing.T) {
		cookies := []cookiestore.Cookie{cookieAt("a", -time.Hour, now)}
		status, valid := Classify(cookies, now)
		if status != StatusExpired || len(valid) != 0 {
			t.Fatalf("got %v, %v", status, valid)
		}
	})

	t.Run("earliest valid within 24h is expiring", func(t *testing.T) {
		cookies := []cookiestore.Cookie{
			cookieAt("soon", 8*time.Hour, now),
			cookieAt("later", 48*time.Hour, now),
		}
		status, valid := Classify(cookies, now)
		if status != StatusExpiring {
			t.Fatalf("expected expiring, got %v", status)
		}
		if len(valid) != 2 {
			t.Fatalf("expected both cookies valid, got %d", len(valid))
		}
	})

	t.Run("earliest valid beyond 24h is ok", func(t *testing.T) {
		cookies := []cookiestore.Cookie{cookieAt("a", 48*time.Hour, now)}
		status, _ := Classify(cookies, now)
		if status != StatusOK {
			t.Fatalf("expected ok, got %v", status)
		}
	})

	t.Run("valid subset preserves input order", func(t *testing.T) {
		cookies := []cookiestore.Cookie{
			cookieAt("z", 48*time.Hour, now),
			cookieAt("expired", -time.Hour, now),
			cookieAt("a", 72*time.Hour, now),
		}
		_, valid := Classify(cookies, now)
		if len(valid) != 2 || valid[0].Name != "z" || valid[1].Name != "a" {
			t.Fatalf("unexpected order: %+v", valid)
		}
	})

	t.Run("session sentinel is never valid", func(t *testing.T) {
		cookies := []cookiestore.Cookie{{Name: "s", Expires: cookiestore.SessionExpires}}
		status, valid := Classify(cookies, now)
		if status != StatusExpired || len(valid) != 0 {
			t.Fatalf("got %v, %v", status, valid)
		}
	})
}
