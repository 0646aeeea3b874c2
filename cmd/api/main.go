package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "horizon_web/internal/adapters/http_server"
	"horizon_web/internal/adapters/memory"
	"horizon_web/internal/adapters/notify"
	"horizon_web/internal/adapters/observability"
	"horizon_web/internal/adapters/places"
	redisad "horizon_web/internal/adapters/redis"
	"horizon_web/internal/app"
	"horizon_web/internal/domain"
	"horizon_web/internal/shared"
	mysqlrepo "horizon_web/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// snapshot store
	var store domain.SnapshotStore
	if cfg.RedisAddr != "" {
		rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CacheKey)
		defer rs.Close()
		if err := rs.Ping(ctx); err != nil {
			// reads degrade to a cache miss, so keep serving
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		store = rs
	} else {
		log.Info().Msg("REDIS_ADDR is empty; using in-process snapshot store")
		store = memory.New()
	}

	fallbackReviews, err := app.LoadFallbackFile(cfg.FallbackFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load fallback reviews failed")
	}

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	policy := app.NewCachePolicy(store, app.CacheDuration, log.Logger)
	fetcher := app.NewFetcher(places.New(cfg.PlacesBase, cfg.PlacesRPS), store, nil, log.Logger)
	acq := app.NewAcquirer(policy, fetcher, app.NewFallback(fallbackReviews), nil, log.Logger)
	quotes := app.NewQuoteService(mysqlrepo.New(db), notify.NewLogNotifier(cfg.NotifyTo, log.Logger), nil, log.Logger)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Acq:      acq,
		Reviews:  app.Settings{PlaceID: cfg.PlaceID, APIKey: cfg.PlacesKey, MaxReviews: cfg.MaxReviews},
		Quotes:   quotes,
		Throttle: app.NewThrottle(cfg.QuoteBurst, cfg.QuoteWindow, nil),
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return observability.Serve(gctx, cfg.MetricsAddr, observability.MetricsHandler(reg))
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("API stopped")
}
