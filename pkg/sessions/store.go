// Package sessions holds the process-wide registry of active screening
// calls, keyed by opaque session identifier.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/futuresoft-ai/riya/pkg/interview"
)

// Store maps session identifiers to live interview sessions. Sessions are
// created at call initiation and removed either by the call-status callback
// or by the idle sweep.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*interview.Session
	ttl      time.Duration
}

// NewStore creates a registry. Sessions idle for longer than ttl are
// eligible for eviction; ttl <= 0 disables the sweep.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*interview.Session),
		ttl:      ttl,
	}
}

// Create registers a fresh session for a call to phoneNumber and returns it.
func (s *Store) Create(phoneNumber string) *interview.Session {
	sess := interview.NewSession(uuid.NewString(), phoneNumber)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get looks up a session and marks it active.
func (s *Store) Get(id string) (*interview.Session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		sess.Touch(time.Now())
	}
	return sess, ok
}

// Delete removes a session; removing an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Count returns the number of registered sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle past the TTL and returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	var stale []string
	for id, sess := range s.sessions {
		sess.Lock()
		idle := now.Sub(sess.LastSeen)
		sess.Unlock()
		if idle > s.ttl {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	return len(stale)
}

// StartJanitor sweeps on the given interval until ctx is cancelled.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
}
