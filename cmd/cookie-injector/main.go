// Command cookie-injector bundles refreshd, healthd, and proxy into a
// single binary for simpler single-container deployments; each remains
// independently runnable via cmd/refreshd, cmd/healthd, cmd/proxy.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/elazarl/goproxy"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pvliesdonk/cookie-injector/internal/config"
	"github.com/pvliesdonk/cookie-injector/internal/health"
	"github.com/pvliesdonk/cookie-injector/internal/injector"
	"github.com/pvliesdonk/cookie-injector/internal/refresh"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cookie-injector",
		Short: "Cookie refresh control plane: refreshd, healthd, and proxy in one binary",
	}

	rootCmd.AddCommand(refreshdCmd(), healthdCmd(), proxyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func refreshdCmd() *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:   "refreshd",
		Short: "Run the per-site adaptive cookie refresh loops",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			zerolog.SetGlobalLevel(level)

			cfg, err := config.LoadFromEnv()
			if err != nil {
				log.Error().Err(err).Msg("configuration_invalid")
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = log.Logger.WithContext(ctx)

			gate := refresh.NewGate()
			g, gctx := errgroup.WithContext(ctx)
			for _, site := range cfg.Sites {
				site := site
				g.Go(func() error {
					return refresh.RunLoop(gctx, site, gate, cfg)
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", envOrDefault("LOG_LEVEL", "info"), "debug, info, warn, error")
	return cmd
}

func healthdCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "healthd",
		Short: "Serve the cookie jar health surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				log.Error().Err(err).Msg("configuration_invalid")
				os.Exit(1)
			}
			addr := ":" + port
			log.Info().Str("addr", addr).Msg("health_listening")
			return http.ListenAndServe(addr, health.NewRouter(cfg.CookieDir))
		},
	}
	cmd.Flags().StringVar(&port, "port", envOrDefault("HEALTH_PORT", "8081"), "listen port")
	return cmd
}

func proxyCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Run the intercepting HTTP proxy that injects fresh cookies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				log.Error().Err(err).Msg("configuration_invalid")
				os.Exit(1)
			}
			addon := injector.New(cfg.CookieDir)

			p := goproxy.NewProxyHttpServer()
			p.OnRequest().DoFunc(func(req *http.Request, ctx *goproxy.ProxyCtx) (*http.Request, *http.Response) {
				return addon.Request(req, ctx)
			})
			p.OnResponse().DoFunc(func(resp *http.Response, ctx *goproxy.ProxyCtx) *http.Response {
				return addon.Response(resp, ctx)
			})

			addr := ":" + port
			log.Info().Str("addr", addr).Msg("proxy_listening")
			return http.ListenAndServe(addr, p)
		},
	}
	cmd.Flags().StringVar(&port, "port", envOrDefault("PROXY_PORT", "8080"), "listen port")
	return cmd
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
