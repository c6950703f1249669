package refresh

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pvliesdonk/cookie-injector/internal/alerting"
	"github.com/pvliesdonk/cookie-injector/internal/config"
	"github.com/pvliesdonk/cookie-injector/internal/scheduler"
)

// RunLoop runs the adaptive refresh loop for one site until ctx is
// cancelled. It never returns on a single refresh failure — alerting and
// liveness pings are best-effort, logged but never propagated (§7
// AlertingFailed). It only returns when ctx is cancelled.
func RunLoop(ctx context.Context, site config.SiteConfig, gate Gate, cfg *config.Config) error {
	log := zerolog.Ctx(ctx).With().Str("domain", site.Domain).Logger()

	initial := scheduler.SleepForNext(site.Domain, cfg.CookieDir, time.Now())
	if initial >= scheduler.StartupSkipThreshold {
		log.Info().Dur("sleep", initial).Msg("startup_skip_cookies_fresh")
		if err := sleepOrDone(ctx, initial); err != nil {
			return nil
		}
	}

	for {
		if err := Refresh(ctx, site, gate, cfg.CookieDir); err != nil {
			log.Error().Err(err).Msg("scheduled_refresh_failed")
			if aerr := alerting.Notify(ctx, site.Domain, err.Error(), cfg.NtfyURL); aerr != nil {
				log.Warn().Err(aerr).Msg("ntfy_alert_failed")
			}
			if aerr := alerting.Liveness(ctx, site.Domain, false, cfg.HealthcheckURL); aerr != nil {
				log.Warn().Err(aerr).Msg("healthcheck_ping_failed")
			}
		} else {
			if aerr := alerting.Liveness(ctx, site.Domain, true, cfg.HealthcheckURL); aerr != nil {
				log.Warn().Err(aerr).Msg("healthcheck_ping_failed")
			}
		}

		interval := scheduler.SleepForNext(site.Domain, cfg.CookieDir, time.Now())
		if interval == 0 {
			interval = scheduler.MinInterval
		}
		log.Info().Dur("interval", interval).Msg("next_refresh_scheduled")

		if err := sleepOrDone(ctx, interval); err != nil {
			return nil
		}
	}
}

// sleepOrDone sleeps for d, returning ctx.Err() early if ctx is cancelled
// first.
func sleepOrDone(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
