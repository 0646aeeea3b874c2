package app

import (
	"context"
	"sync"
)

// Widget is one consumer of the acquisition pipeline, the server-side
// stand-in for a mounted reviews view. It reruns the pipeline whenever its
// settings change identity and only ever exposes states produced by its
// newest session.
//
// Lock order: cfgMu, then the session manager, then stateMu.
type Widget struct {
	acq      *Acquirer
	sessions Sessions
	onChange func(State)

	cfgMu    sync.Mutex
	settings *Settings
	done     chan struct{}

	stateMu sync.RWMutex
	state   State
}

// NewWidget binds a consumer to acq. onChange, if set, is invoked for every
// applied state and must not call back into the Widget.
func NewWidget(acq *Acquirer, onChange func(State)) *Widget {
	return &Widget{acq: acq, onChange: onChange, state: State{Phase: Loading}}
}

// Configure starts a new pipeline run when s differs from the current
// settings, cancelling any run in flight. The returned channel is closed when
// the governing run has finished.
func (w *Widget) Configure(ctx context.Context, s Settings) <-chan struct{} {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()

	if !NeedsRestart(w.settings, s) && w.done != nil {
		return w.done
	}
	cp := s
	w.settings = &cp

	sess := w.sessions.Start(ctx)
	done := make(chan struct{})
	w.done = done

	go func() {
		defer close(done)
		defer w.sessions.Settle(sess)
		_ = w.acq.Run(sess.Context(), cp, func(st State) {
			w.sessions.Apply(sess, func() { w.apply(st) })
		})
	}()
	return done
}

func (w *Widget) apply(st State) {
	w.stateMu.Lock()
	w.state = st
	w.stateMu.Unlock()
	if w.onChange != nil {
		w.onChange(st)
	}
}

// State returns the most recently applied state.
func (w *Widget) State() State {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return w.state
}

// Close tears the consumer down; any in-flight result is discarded. A later
// Configure behaves like a fresh mount.
func (w *Widget) Close() {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()
	w.sessions.End()
	w.settings = nil
}
