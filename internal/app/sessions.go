package app

import (
	"context"
	"sync"
)

// Session is one in-flight acquisition attempt. Its context is the
// cancellation token handed to the fetch.
type Session struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *Session) Context() context.Context { return s.ctx }
func (s *Session) ID() uint64               { return s.id }

// Sessions holds at most one active Session for a single consumer.
type Sessions struct {
	mu     sync.Mutex
	seq    uint64
	active *Session
}

// Start cancels the active session, if any, and returns a new one derived
// from parent.
func (m *Sessions) Start(parent context.Context) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		m.active.cancel()
	}
	m.seq++
	ctx, cancel := context.WithCancel(parent)
	m.active = &Session{id: m.seq, ctx: ctx, cancel: cancel}
	return m.active
}

// End cancels the active session. Called on consumer teardown.
func (m *Sessions) End() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		m.active.cancel()
		m.active = nil
	}
}

// Settle releases s once its pipeline has finished. It is a no-op when s is
// no longer the active session.
func (m *Sessions) Settle(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.cancel()
	if m.active == s {
		m.active = nil
	}
}

// Apply runs fn only if s is still the active, uncancelled session. fn runs
// under the manager lock so Start and End cannot interleave with it.
func (m *Sessions) Apply(s *Session, fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != s || s.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

func (m *Sessions) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil
}
