// Package session orchestrates the lifecycle of an interview session:
// initialization with case selection, live conversation handling, transcript
// persistence and handoff to background skill scoring once the case ends.
package session

import (
	"sync"

	"github.com/jonathan/interview-agent/internal/interview"
)

// Registry tracks the live interview state machine for each session. The
// persisted transcript is the durable record; entries here are in-memory
// only and are evicted once background scoring for the session completes.
type Registry struct {
	mu   sync.RWMutex
	live map[string]*interview.Interviewer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[string]*interview.Interviewer)}
}

// Put registers the interviewer for the session, replacing any previous
// instance.
func (r *Registry) Put(sessionID string, iv *interview.Interviewer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[sessionID] = iv
}

// Get returns the live interviewer for the session, if any.
func (r *Registry) Get(sessionID string) (*interview.Interviewer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	iv, ok := r.live[sessionID]
	return iv, ok
}

// Evict removes the session's live interviewer. Evicting an unknown session
// is a no-op.
func (r *Registry) Evict(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, sessionID)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}
