package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/elazarl/goproxy"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pvliesdonk/cookie-injector/internal/config"
	"github.com/pvliesdonk/cookie-injector/internal/injector"
)

func main() {
	var port string

	rootCmd := &cobra.Command{
		Use:   "proxy",
		Short: "Run the intercepting HTTP proxy that injects fresh cookies",
		Long: `proxy runs an HTTP proxy that rewrites the Cookie header of
requests bound for configured paywalled domains using the freshest
jar on disk, and short-circuits with a 502 when no usable cookies
exist (C7, ADR-0001).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(port)
		},
	}

	rootCmd.Flags().StringVar(&port, "port", envOrDefault("PROXY_PORT", "8080"), "listen port")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(port string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Error().Err(err).Msg("configuration_invalid")
		os.Exit(1)
	}

	addon := injector.New(cfg.CookieDir)

	p := goproxy.NewProxyHttpServer()
	p.Verbose = false
	p.OnRequest().DoFunc(func(req *http.Request, ctx *goproxy.ProxyCtx) (*http.Request, *http.Response) {
		return addon.Request(req, ctx)
	})
	p.OnResponse().DoFunc(func(resp *http.Response, ctx *goproxy.ProxyCtx) *http.Response {
		return addon.Response(resp, ctx)
	})

	addr := ":" + port
	log.Info().Str("addr", addr).Str("cookie_dir", cfg.CookieDir).Msg("proxy_listening")
	return http.ListenAndServe(addr, p)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
