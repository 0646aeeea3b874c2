package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	LogLevel     string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	CacheKey     string
	PlacesBase   string
	PlaceID      string
	PlacesKey    string
	PlacesRPS    int
	MaxReviews   int
	FallbackFile string
	RefreshSpec  string
	RefreshAhead time.Duration
	QuoteBurst   int
	QuoteWindow  time.Duration
	NotifyTo     string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		LogLevel:     env("LOG_LEVEL", "info"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/horizon?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", ""),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		CacheKey:     env("REVIEWS_CACHE_KEY", "google_reviews_cache"),
		PlacesBase:   env("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api"),
		PlaceID:      env("GOOGLE_PLACE_ID", ""),
		PlacesKey:    env("GOOGLE_PLACES_API_KEY", ""),
		PlacesRPS:    atoi("PLACES_RPS", 2),
		MaxReviews:   atoi("REVIEWS_MAX", 10),
		FallbackFile: env("FALLBACK_REVIEWS_FILE", ""),
		RefreshSpec:  env("REFRESH_SPEC", "@every 55m"),
		RefreshAhead: time.Duration(atoi("REFRESH_AHEAD_SECONDS", 600)) * time.Second,
		QuoteBurst:   atoi("QUOTE_RATE_BURST", 5),
		QuoteWindow:  time.Duration(atoi("QUOTE_RATE_WINDOW_SECONDS", 60)) * time.Second,
		NotifyTo:     env("QUOTE_NOTIFY_TO", "hello@horizon.example"),
	}
	if c.PlaceID == "" || c.PlacesKey == "" {
		log.Warn().Msg("GOOGLE_PLACE_ID or GOOGLE_PLACES_API_KEY is empty; serving fallback reviews")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
