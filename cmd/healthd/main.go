package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pvliesdonk/cookie-injector/internal/config"
	"github.com/pvliesdonk/cookie-injector/internal/health"
)

func main() {
	var port string

	rootCmd := &cobra.Command{
		Use:   "healthd",
		Short: "Serve the cookie jar health surface",
		Long: `healthd serves JSON health status and a static dashboard
over the configured cookie directory, reporting per-domain and overall
freshness.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(port)
		},
	}

	rootCmd.Flags().StringVar(&port, "port", envOrDefault("HEALTH_PORT", "8081"), "listen port")

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

	addr := ":" + port
	log.Info().Str("addr", addr).Str("cookie_dir", cfg.CookieDir).Msg("health_listening")
	return http.ListenAndServe(addr, health.NewRouter(cfg.CookieDir))
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
