package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"horizon_web/internal/domain"
)

const (
	CacheDuration      = time.Hour
	MinRatingThreshold = 4
	DefaultMaxReviews  = 10
)

type Freshness int

const (
	Absent Freshness = iota
	Stale
	Fresh
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

// Verdict is the cache policy decision. Entry is set for Fresh and Stale.
type Verdict struct {
	Freshness Freshness
	Entry     domain.CacheEntry
}

// CachePolicy decides whether the stored snapshot may be served. It never writes.
type CachePolicy struct {
	store    domain.SnapshotStore
	duration time.Duration
	log      zerolog.Logger
}

func NewCachePolicy(store domain.SnapshotStore, duration time.Duration, log zerolog.Logger) *CachePolicy {
	if duration <= 0 {
		duration = CacheDuration
	}
	return &CachePolicy{store: store, duration: duration, log: log.With().Str("component", "cache_policy").Logger()}
}

func (p *CachePolicy) Evaluate(ctx context.Context, now time.Time) Verdict {
	raw, ok, err := p.store.Read(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("snapshot read failed; treating as absent")
		return Verdict{Freshness: Absent}
	}
	if !ok {
		return Verdict{Freshness: Absent}
	}
	entry, err := domain.DecodeEntry(raw)
	if err != nil {
		p.log.Warn().Err(err).Msg("failed to parse cached reviews")
		return Verdict{Freshness: Absent}
	}
	if now.Sub(entry.FetchedAt) < p.duration {
		return Verdict{Freshness: Fresh, Entry: entry}
	}
	return Verdict{Freshness: Stale, Entry: entry}
}
