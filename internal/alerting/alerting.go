// Package alerting sends best-effort notifications to an ntfy topic and
// pings a dead-man's-switch healthcheck endpoint on refresh outcomes.
package alerting

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const timeout = 10 * time.Second

var client = &http.Client{Timeout: timeout}

// Notify posts a push notification via ntfy when topicURL is non-empty.
// Callers treat a returned error as best-effort and never propagate it.
func Notify(ctx context.Context, domain, refreshErr, topicURL string) error {
	if topicURL == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := fmt.Sprintf("Cookie refresh FAILED for %s: %s", domain, refreshErr)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, topicURL, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Title", fmt.Sprintf("cookie-injector: %s failed", domain))
	req.Header.Set("Priority", "high")
	req.Header.Set("Tags", "warning,cookie-injector")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("ntfy responded with status %d", resp.StatusCode)
	}
	return nil
}

// Liveness pings a healthchecks.io-style endpoint: baseURL on success,
// baseURL+"/fail" on failure. A no-op when baseURL is empty.
func Liveness(ctx context.Context, domain string, success bool, baseURL string) error {
	if baseURL == "" {
		return nil
	}

	pingURL := baseURL
	if !success {
		pingURL = strings.TrimRight(baseURL, "/") + "/fail"
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pingURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("healthcheck responded with status %d", resp.StatusCode)
	}
	return nil
}
