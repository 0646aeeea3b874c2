package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"horizon_web/internal/adapters/observability"
	"horizon_web/internal/adapters/places"
	redisad "horizon_web/internal/adapters/redis"
	"horizon_web/internal/app"
	"horizon_web/internal/shared"
)

func main() {
	once := flag.Bool("once", false, "refresh the snapshot once and exit")
	flag.Parse()

	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if cfg.RedisAddr == "" {
		log.Fatal().Msg("REDIS_ADDR is required; the refresher shares its snapshot through redis")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CacheKey)
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
	}

	settings := app.Settings{PlaceID: cfg.PlaceID, APIKey: cfg.PlacesKey}
	policy := app.NewCachePolicy(store, app.CacheDuration, log.Logger)
	fetcher := app.NewFetcher(places.New(cfg.PlacesBase, cfg.PlacesRPS), store, nil, log.Logger)

	log.Info().
		Str("base", cfg.PlacesBase).
		Bool("once", *once).
		Str("spec", cfg.RefreshSpec).
		Msg("refresher starting")

	if *once {
		r := app.NewRefresher(policy, fetcher, settings, 0, nil, log.Logger)
		wrote, err := r.Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("refresh failed")
		}
		log.Info().Bool("written", wrote).Msg("refresh completed")
		return
	}

	r := app.NewRefresher(policy, fetcher, settings, cfg.RefreshAhead, nil, log.Logger)
	reg := observability.InitRegistry()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// warm the snapshot immediately rather than waiting for the first tick
		if _, err := r.Run(gctx); err != nil {
			log.Warn().Err(err).Msg("initial refresh failed")
		}
		return r.Schedule(gctx, cfg.RefreshSpec)
	})
	g.Go(func() error {
		return observability.Serve(gctx, cfg.MetricsAddr, observability.MetricsHandler(reg))
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("refresher failed")
	}
	log.Info().Msg("refresher stopped")
}
