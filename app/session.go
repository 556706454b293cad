package app

import (
	"sync"
)

// Session is the mutable per-session state of discovery and sync: the set of
// relays that returned a document this session, the poll attempt counter,
// and the sync prevention gate. All access is serialized behind one mutex.
type Session struct {
	mx          sync.Mutex
	connected   map[string]struct{}
	attempts    int
	stopped     bool
	syncPrevent bool
}

// NewSession returns fresh session state. Nothing here is ever persisted.
func NewSession() *Session {
	return &Session{connected: make(map[string]struct{})}
}

// Connected reports whether the relay id has returned a document this
// session.
func (s *Session) Connected(id string) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	_, ok := s.connected[id]
	return ok
}

// ConnectedCount returns the size of the connected relay set.
func (s *Session) ConnectedCount() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return len(s.connected)
}

func (s *Session) markConnected(id string) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.connected[id] = struct{}{}
}

// PollAttempts returns how many poll cycles have run this session.
func (s *Session) PollAttempts() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.attempts
}

func (s *Session) advanceAttempt() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.attempts++
	return s.attempts
}

// PollStopped reports whether polling has reached its terminal state.
func (s *Session) PollStopped() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.stopped
}

func (s *Session) stopPolling() {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.stopped = true
}

// SetSyncPrevent sets or clears the sync prevention gate.
func (s *Session) SetSyncPrevent(v bool) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.syncPrevent = v
}

// SyncPrevented reports the state of the sync prevention gate.
func (s *Session) SyncPrevented() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.syncPrevent
}
