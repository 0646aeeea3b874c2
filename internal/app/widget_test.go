package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon_web/internal/app"
	"horizon_web/internal/domain"
)

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not finish")
	}
}

type stateLog struct {
	mu     sync.Mutex
	states []app.State
}

func (l *stateLog) add(s app.State) {
	l.mu.Lock()
	l.states = append(l.states, s)
	l.mu.Unlock()
}

func (l *stateLog) all() []app.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]app.State(nil), l.states...)
}

func TestWidget_NewerSessionWins(t *testing.T) {
	releaseA := make(chan struct{})
	enteredA := make(chan struct{})
	p := &fakeProvider{fn: func(ctx context.Context, placeID, _ string) ([]domain.Review, error) {
		if placeID == "A" {
			close(enteredA)
			<-releaseA // ignores cancellation and resolves successfully later
			return []domain.Review{rv("from-A", 5)}, nil
		}
		return []domain.Review{rv("from-B", 5)}, nil
	}}
	h := newHarness(t, p)
	var seen stateLog
	w := app.NewWidget(h.acq, seen.add)
	defer w.Close()

	doneA := w.Configure(context.Background(), app.Settings{PlaceID: "A", APIKey: "k"})
	<-enteredA
	doneB := w.Configure(context.Background(), app.Settings{PlaceID: "B", APIKey: "k"})
	waitDone(t, doneB)

	close(releaseA)
	waitDone(t, doneA)

	final := w.State()
	assert.Equal(t, app.Ready, final.Phase)
	assert.Equal(t, []string{"from-B"}, authors(final.Reviews))
	for _, s := range seen.all() {
		assert.NotContains(t, authors(s.Reviews), "from-A", "superseded result must never be applied")
	}

	// A's late success is not written through either
	assert.Equal(t, []string{"from-B"}, authors(h.storedEntry(t).Reviews))
	assert.Equal(t, 1, h.store.Writes())
}

func TestWidget_CloseDiscardsInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	p := &fakeProvider{fn: func(context.Context, string, string) ([]domain.Review, error) {
		close(entered)
		<-release
		return []domain.Review{rv("late", 5)}, nil
	}}
	h := newHarness(t, p)
	w := app.NewWidget(h.acq, nil)

	done := w.Configure(context.Background(), happy)
	<-entered
	w.Close()
	close(release)
	waitDone(t, done)

	st := w.State()
	assert.Equal(t, app.Loading, st.Phase, "only the loading state was applied before teardown")
	assert.Empty(t, st.Reviews)
}

func TestWidget_SameSettingsDoNotRerun(t *testing.T) {
	p := returning([]domain.Review{rv("five", 5)}, nil)
	h := newHarness(t, p)
	w := app.NewWidget(h.acq, nil)
	defer w.Close()

	waitDone(t, w.Configure(context.Background(), happy))
	waitDone(t, w.Configure(context.Background(), happy))
	assert.Equal(t, int32(1), p.calls.Load())

	// a changed cap reruns; the snapshot is now fresh so no second call
	waitDone(t, w.Configure(context.Background(), app.Settings{PlaceID: "p1", APIKey: "k1", MaxReviews: 1}))
	assert.Equal(t, int32(1), p.calls.Load())
	assert.Equal(t, app.SourceCache, w.State().Source)
}

func TestWidget_ReportsLoadingThenReady(t *testing.T) {
	h := newHarness(t, returning([]domain.Review{rv("five", 5)}, nil))
	var seen stateLog
	w := app.NewWidget(h.acq, seen.add)
	defer w.Close()

	waitDone(t, w.Configure(context.Background(), happy))
	states := seen.all()
	require.Len(t, states, 2)
	assert.Equal(t, app.Loading, states[0].Phase)
	assert.Equal(t, app.Ready, states[1].Phase)
}

func TestWidget_RemountAfterClose(t *testing.T) {
	p := returning(nil, errBoom)
	h := newHarness(t, p)
	w := app.NewWidget(h.acq, nil)

	waitDone(t, w.Configure(context.Background(), happy))
	w.Close()
	waitDone(t, w.Configure(context.Background(), happy))
	defer w.Close()

	assert.Equal(t, int32(2), p.calls.Load())
	assert.True(t, w.State().Sample())
}
