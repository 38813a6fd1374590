package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/basel-ax/archrender/internal/blob"
	"github.com/basel-ax/archrender/internal/domain"
)

type registryEntry struct {
	session  *Session
	lastSeen time.Time
}

// Registry keeps the in-memory sessions of the browser UI, keyed by session id
type Registry struct {
	api    domain.RenderAPI
	origin string
	log    zerolog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*registryEntry
}

// NewRegistry creates an empty registry. origin is used in blob URIs.
func NewRegistry(api domain.RenderAPI, origin string, logger zerolog.Logger) *Registry {
	return &Registry{
		api:      api,
		origin:   origin,
		log:      logger,
		now:      time.Now,
		sessions: make(map[string]*registryEntry),
	}
}

// Get returns the session with the given id and marks it as used
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.session, true
}

// Open creates a new session and returns its id
func (r *Registry) Open() (string, *Session) {
	id := uuid.NewString()
	s := NewSession(r.api, blob.NewStore(r.origin), r.log.With().Str("session", id).Logger())

	r.mu.Lock()
	r.sessions[id] = &registryEntry{session: s, lastSeen: r.now()}
	r.mu.Unlock()

	r.log.Debug().Str("session", id).Msg("session opened")
	return id, s
}

// Close ends a session and releases its result
func (r *Registry) Close(id string) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		e.session.Close()
	}
}

// EvictIdle closes every session not used for longer than maxIdle and
// returns how many were closed.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	idle := make(map[string]*Session)
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			idle[id] = e.session
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for id, s := range idle {
		s.Close()
		r.log.Debug().Str("session", id).Msg("idle session closed")
	}
	return len(idle)
}

// RunEvictor evicts idle sessions every interval until done is closed
func (r *Registry) RunEvictor(done <-chan struct{}, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if n := r.EvictIdle(maxIdle); n > 0 {
				r.log.Info().Int("evicted", n).Int("open", r.Len()).Msg("idle sessions evicted")
			}
		}
	}
}

// CloseAll ends every session
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.session.Close()
	}
}

// Len returns the number of open sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
