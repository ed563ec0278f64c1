package game

import (
	"fmt"
	"sync"
)

// Registry is the process-wide index of live sessions, owned by the
// top-level composition and passed to whoever needs lookups — there is
// deliberately no package-level instance. A session is registered when
// its game is created and removed when it ends; operations are
// independent per key, so a single RWMutex over the map is all the
// coordination required.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create builds a session from cfg and registers it under cfg.ID. The
// session will deregister itself when it ends.
func (r *Registry) Create(cfg SessionConfig) (*Session, error) {
	s, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSession, s.id)
	}
	s.registry = r
	r.sessions[s.id] = s
	return s, nil
}

// Get returns the live session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Len counts the live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs lists the live session ids, in no particular order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
