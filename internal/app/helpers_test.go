package app_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"horizon_web/internal/adapters/memory"
	"horizon_web/internal/app"
	"horizon_web/internal/domain"
)

// ---- fakes ----

type providerFunc func(ctx context.Context, placeID, apiKey string) ([]domain.Review, error)

type fakeProvider struct {
	calls atomic.Int32
	fn    providerFunc
}

func (p *fakeProvider) PlaceReviews(ctx context.Context, placeID, apiKey string) ([]domain.Review, error) {
	p.calls.Add(1)
	return p.fn(ctx, placeID, apiKey)
}

func returning(rs []domain.Review, err error) *fakeProvider {
	return &fakeProvider{fn: func(context.Context, string, string) ([]domain.Review, error) { return rs, err }}
}

type failingStore struct{ readErr, writeErr error }

func (s failingStore) Read(context.Context) ([]byte, bool, error) { return nil, false, s.readErr }
func (s failingStore) Write(context.Context, []byte) error        { return s.writeErr }

// clock is a settable time source shared by every component of a harness.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock { return &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// syncBuffer lets the logger be written from pipeline goroutines.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

type harness struct {
	store    *memory.Store
	clock    *clock
	provider *fakeProvider
	logs     *syncBuffer
	policy   *app.CachePolicy
	fetcher  *app.Fetcher
	fallback *app.Fallback
	acq      *app.Acquirer
}

func newHarness(t *testing.T, p *fakeProvider) *harness {
	t.Helper()
	h := &harness{store: memory.New(), clock: newClock(), provider: p, logs: &syncBuffer{}}
	log := zerolog.New(h.logs).Level(zerolog.DebugLevel)
	h.policy = app.NewCachePolicy(h.store, app.CacheDuration, log)
	h.fetcher = app.NewFetcher(p, h.store, h.clock.Now, log)
	h.fallback = app.NewFallback(fallbackSet)
	h.acq = app.NewAcquirer(h.policy, h.fetcher, h.fallback, h.clock.Now, log)
	return h
}

// run executes one pipeline pass and returns every emitted state.
func (h *harness) run(t *testing.T, ctx context.Context, s app.Settings) ([]app.State, error) {
	t.Helper()
	var states []app.State
	err := h.acq.Run(ctx, s, func(st app.State) { states = append(states, st) })
	return states, err
}

func (h *harness) storedEntry(t *testing.T) domain.CacheEntry {
	t.Helper()
	raw, ok, err := h.store.Read(context.Background())
	require.NoError(t, err)
	require.True(t, ok, "expected a stored snapshot")
	e, err := domain.DecodeEntry(raw)
	require.NoError(t, err)
	return e
}

// ---- fixtures ----

var fallbackSet = []domain.Review{
	{Author: "Sample One", Rating: 5, Text: "sample"},
	{Author: "Sample Two", Rating: 4, Text: "sample"},
}

func rv(author string, rating int) domain.Review {
	return domain.Review{Author: author, Rating: rating, Text: author + " says hi"}
}

func authors(rs []domain.Review) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Author)
	}
	return out
}

var errBoom = errors.New("boom")
