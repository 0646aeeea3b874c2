package app

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle allows up to burst events per window for each key, refilling
// evenly across the window. Idle keys are dropped after one window.
type Throttle struct {
	mu     sync.Mutex
	limit  rate.Limit
	burst  int
	window time.Duration
	keys   map[string]*throttleEntry
	now    func() time.Time
}

type throttleEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewThrottle(burst int, window time.Duration, now func() time.Time) *Throttle {
	if burst <= 0 {
		burst = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &Throttle{
		limit:  rate.Every(window / time.Duration(burst)),
		burst:  burst,
		window: window,
		keys:   make(map[string]*throttleEntry),
		now:    now,
	}
}

func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.sweep(now)
	e, ok := t.keys[key]
	if !ok {
		e = &throttleEntry{lim: rate.NewLimiter(t.limit, t.burst)}
		t.keys[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

func (t *Throttle) sweep(now time.Time) {
	for k, e := range t.keys {
		if now.Sub(e.seen) > t.window {
			delete(t.keys, k)
		}
	}
}

func (t *Throttle) Window() time.Duration { return t.window }
