package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pvliesdonk/cookie-injector/internal/config"
	"github.com/pvliesdonk/cookie-injector/internal/refresh"
)

func main() {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "refreshd",
		Short: "Run the per-site adaptive cookie refresh loops",
		Long: `refreshd loads sites.yaml, launches one refresh loop per
configured site, and keeps their cookie jars fresh under a bounded
global concurrency cap. It runs until terminated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), logLevel)
		},
	}

	rootCmd.Flags().StringVar(&logLevel, "log-level", envOrDefault("LOG_LEVEL", "info"), "debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logLevel string) error {
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

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
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

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("refresh_loop_fatal")
		return err
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
