package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"horizon_web/internal/domain"
)

// Fetcher pulls live reviews and writes the unfiltered result through to the
// snapshot store. The context is the cancellation token for the request.
type Fetcher struct {
	provider domain.ReviewsProvider
	store    domain.SnapshotStore
	now      func() time.Time
	log      zerolog.Logger
}

func NewFetcher(p domain.ReviewsProvider, s domain.SnapshotStore, now func() time.Time, log zerolog.Logger) *Fetcher {
	if now == nil {
		now = time.Now
	}
	return &Fetcher{provider: p, store: s, now: now, log: log.With().Str("component", "review_fetcher").Logger()}
}

func (f *Fetcher) Fetch(ctx context.Context, placeID, apiKey string) ([]domain.Review, error) {
	if placeID == "" || apiKey == "" {
		return nil, domain.ErrConfigMissing
	}

	reviews, err := f.provider.PlaceReviews(ctx, placeID, apiKey)
	if err != nil {
		return nil, err
	}
	// a result that lands after cancellation belongs to a superseded session
	if ctx.Err() != nil {
		return nil, domain.ErrCancelled
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	raw, err := domain.EncodeEntry(domain.CacheEntry{Reviews: reviews, FetchedAt: f.now()})
	if err != nil {
		f.log.Error().Err(err).Msg("encode snapshot failed")
		return reviews, nil
	}
	if err := f.store.Write(ctx, raw); err != nil {
		f.log.Warn().Err(err).Msg("snapshot write failed")
	}
	return reviews, nil
}
