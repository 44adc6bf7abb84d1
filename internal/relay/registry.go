package relay

import (
	"sync"
	"time"
)

// Registry tracks live sessions by ID. Each connection owns exactly
// one accumulation buffer, held by its session; the registry only
// indexes them for introspection and shutdown.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// SessionInfo is a point-in-time view of one session for the
// /sessions endpoint.
type SessionInfo struct {
	ID             string  `json:"id"`
	Language       string  `json:"language"`
	BatchesHandled int     `json:"batchesHandled"`
	UptimeSeconds  float64 `json:"uptimeSeconds"`
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers a session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Remove deregisters a session by ID.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get returns the session with the given ID, if live.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns a view of all live sessions.
func (r *Registry) Snapshot() []SessionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, SessionInfo{
			ID:             s.ID,
			Language:       s.Language(),
			BatchesHandled: s.Handled(),
			UptimeSeconds:  s.Uptime().Round(time.Millisecond).Seconds(),
		})
	}
	return out
}
