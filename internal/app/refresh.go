package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"horizon_web/internal/domain"
)

// Refresher keeps the snapshot warm ahead of expiry so views rarely hit the
// provider themselves. It reuses the same fetcher, so the write-through rules
// are identical.
type Refresher struct {
	policy   *CachePolicy
	fetcher  *Fetcher
	settings Settings
	margin   time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewRefresher skips a run while the snapshot has more than margin left
// before it expires. A zero margin always refreshes.
func NewRefresher(policy *CachePolicy, fetcher *Fetcher, s Settings, margin time.Duration, now func() time.Time, log zerolog.Logger) *Refresher {
	if now == nil {
		now = time.Now
	}
	return &Refresher{
		policy:   policy,
		fetcher:  fetcher,
		settings: s,
		margin:   margin,
		now:      now,
		log:      log.With().Str("component", "refresher").Logger(),
	}
}

// Run performs one refresh. It reports whether a fetch was written.
func (r *Refresher) Run(ctx context.Context) (bool, error) {
	if !r.settings.HasCredentials() {
		r.log.Debug().Msg("no API credentials; nothing to refresh")
		return false, nil
	}
	if r.margin > 0 {
		// probe the policy as it will look once margin has elapsed
		v := r.policy.Evaluate(ctx, r.now().Add(r.margin))
		if v.Freshness == Fresh {
			r.log.Debug().Time("fetched_at", v.Entry.FetchedAt).Msg("snapshot still fresh; skipping")
			return false, nil
		}
	}

	all, err := r.fetcher.Fetch(ctx, r.settings.PlaceID, r.settings.APIKey)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			return false, nil
		}
		r.log.Warn().Err(err).Msg("refresh failed; keeping previous snapshot")
		return false, err
	}
	r.log.Info().Int("fetched", len(all)).Msg("snapshot refreshed")
	return true, nil
}

// Schedule runs the refresher on a cron spec until ctx ends, then waits for
// any run in progress. A tick that arrives while a run is still going is
// skipped.
func (r *Refresher) Schedule(ctx context.Context, spec string) error {
	c := cron.New()
	sem := semaphore.NewWeighted(1)
	if _, err := c.AddFunc(spec, func() {
		if !sem.TryAcquire(1) {
			r.log.Warn().Msg("previous refresh still running; skipping tick")
			return
		}
		defer sem.Release(1)
		if _, err := r.Run(ctx); err != nil {
			r.log.Error().Err(err).Msg("scheduled refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule refresh %q: %w", spec, err)
	}

	r.log.Info().Str("spec", spec).Msg("refresh scheduled")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
