package tui

import (
	"sort"
	"sync"
	"time"
)

// SessionInfo describes a connected SSH player.
type SessionInfo struct {
	ID        string
	User      string
	Mode      string // mode being played, empty while in menus
	StartedAt time.Time
}

// SessionRegistry tracks active SSH sessions. Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]SessionInfo
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]SessionInfo)}
}

// Register adds or replaces a session.
func (r *SessionRegistry) Register(id, user string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = SessionInfo{ID: id, User: user, StartedAt: time.Now()}
}

// Unregister removes a session. Unknown IDs are ignored.
func (r *SessionRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// SetMode records the mode a session is playing.
func (r *SessionRegistry) SetMode(id, mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.Mode = mode
		r.sessions[id] = s
	}
}

func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns the sessions ordered by start time.
func (r *SessionRegistry) List() []SessionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
