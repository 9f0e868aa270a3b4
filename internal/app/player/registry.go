package player

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Registry tracks the sessions of all guilds the bot is connected to.
type Registry struct {
	mu       sync.RWMutex
	sessions map[snowflake.ID]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[snowflake.ID]*Session),
	}
}

// Get returns the session for a guild, if one exists.
func (r *Registry) Get(guildID snowflake.ID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[guildID]
	return s, ok
}

// Put registers a session for a guild, replacing any previous one.
func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.GuildID()] = s
}

// Remove drops the session for a guild and returns it for teardown.
func (r *Registry) Remove(guildID snowflake.ID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[guildID]
	if ok {
		delete(r.sessions, guildID)
	}
	return s, ok
}

// All returns a snapshot of every registered session.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
