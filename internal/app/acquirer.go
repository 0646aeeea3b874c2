package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"horizon_web/internal/adapters/observability"
	"horizon_web/internal/domain"
)

type Phase int

const (
	Loading Phase = iota
	Ready
)

func (p Phase) String() string {
	if p == Ready {
		return "ready"
	}
	return "loading"
}

type Source string

const (
	SourceNone     Source = ""
	SourceCache    Source = "cache"
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// State is one step of the acquisition pipeline as seen by the presentation
// layer. Reviews and Source are only meaningful when Phase is Ready.
type State struct {
	Phase   Phase
	Reviews []domain.Review
	Source  Source
}

// Sample reports whether the advisory "using sample reviews" note applies.
func (s State) Sample() bool { return s.Phase == Ready && s.Source == SourceFallback }

// Settings are the consumer-facing options that drive one pipeline run.
type Settings struct {
	PlaceID    string
	APIKey     string
	MaxReviews int
}

func (s Settings) HasCredentials() bool { return s.PlaceID != "" && s.APIKey != "" }

func (s Settings) maxReviews() int {
	if s.MaxReviews <= 0 {
		return DefaultMaxReviews
	}
	return s.MaxReviews
}

// NeedsRestart is the restart rule for a consumer: the pipeline reruns from
// scratch when there was no previous run or any of placeId, apiKey or
// maxReviews changed.
func NeedsRestart(prev *Settings, next Settings) bool {
	if prev == nil {
		return true
	}
	return prev.PlaceID != next.PlaceID ||
		prev.APIKey != next.APIKey ||
		prev.maxReviews() != next.maxReviews()
}

type Acquirer struct {
	policy   *CachePolicy
	fetcher  *Fetcher
	fallback *Fallback
	now      func() time.Time
	log      zerolog.Logger
}

func NewAcquirer(policy *CachePolicy, fetcher *Fetcher, fallback *Fallback, now func() time.Time, log zerolog.Logger) *Acquirer {
	if now == nil {
		now = time.Now
	}
	return &Acquirer{
		policy:   policy,
		fetcher:  fetcher,
		fallback: fallback,
		now:      now,
		log:      log.With().Str("component", "acquirer").Logger(),
	}
}

// Run executes one acquisition pass and reports its states through emit.
// Every path ends in a single Ready state, except cancellation, which emits
// nothing further and returns domain.ErrCancelled.
func (a *Acquirer) Run(ctx context.Context, s Settings, emit func(State)) error {
	limit := s.maxReviews()

	if !s.HasCredentials() {
		a.log.Info().Msg("no API credentials; using fallback reviews")
		a.ready(emit, a.fallback.Get(), SourceFallback)
		return nil
	}

	v := a.policy.Evaluate(ctx, a.now())
	if v.Freshness == Fresh {
		shown := Display(v.Entry.Reviews, MinRatingThreshold, limit)
		if len(shown) == 0 {
			a.log.Debug().Msg("cached reviews have none above threshold; using fallback")
			a.ready(emit, a.fallback.Get(), SourceFallback)
			return nil
		}
		a.log.Debug().Int("count", len(shown)).Msg("using cached reviews")
		a.ready(emit, shown, SourceCache)
		return nil
	}

	emit(State{Phase: Loading})

	all, err := a.fetcher.Fetch(ctx, s.PlaceID, s.APIKey)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) || ctx.Err() != nil {
			a.log.Debug().Msg("review fetch superseded")
			return domain.ErrCancelled
		}
		a.log.Error().Err(err).Str("cache", v.Freshness.String()).Msg("error fetching reviews; using fallback")
		a.ready(emit, a.fallback.Get(), SourceFallback)
		return nil
	}

	shown := Display(all, MinRatingThreshold, limit)
	if len(shown) == 0 {
		a.log.Info().Int("fetched", len(all)).Msg("no qualifying reviews; using fallback")
		a.ready(emit, a.fallback.Get(), SourceFallback)
		return nil
	}
	a.log.Info().Int("fetched", len(all)).Int("shown", len(shown)).Msg("fetched high-rated reviews")
	a.ready(emit, shown, SourceLive)
	return nil
}

func (a *Acquirer) ready(emit func(State), reviews []domain.Review, src Source) {
	observability.ObserveServed(string(src))
	emit(State{Phase: Ready, Reviews: reviews, Source: src})
}
