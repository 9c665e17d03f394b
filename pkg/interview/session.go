package interview

import (
	"sync"
	"time"
)

// Candidate types, set once at the experience check.
const (
	CandidateFresher     = "fresher"
	CandidateExperienced = "experienced"
)

// Session tracks one call's progress through the screening dialogue.
// All mutation happens under the session's own lock; webhooks for one call
// arrive sequentially in practice, but the lock makes duplicate or
// out-of-order delivery safe rather than assumed away.
type Session struct {
	mu sync.Mutex

	ID            string
	State         State
	CandidateType string
	RetryCount    int
	Answers       map[string]string
	PhoneNumber   string
	LastAudioURL  string

	CreatedAt time.Time
	LastSeen  time.Time
}

// NewSession returns a session at the start of the dialogue.
func NewSession(id, phoneNumber string) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		State:       StateGreeting,
		Answers:     make(map[string]string),
		PhoneNumber: phoneNumber,
		CreatedAt:   now,
		LastSeen:    now,
	}
}

// Lock acquires the per-session lock for the duration of a turn.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch records activity for idle-based eviction.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.LastSeen = now
	s.mu.Unlock()
}
