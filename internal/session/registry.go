package session

import (
	"sync"

	"github.com/DeSent79/miku-bot/internal/store"
)

// Registry hands out the one playback session per guild, creating sessions
// lazily on first use.
type Registry struct {
	tracks store.TrackRepository
	voice  Voice

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(tracks store.TrackRepository, voice Voice) *Registry {
	return &Registry{
		tracks:   tracks,
		voice:    voice,
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Get(guildID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[guildID]; ok {
		return s
	}

	s := New(guildID, r.tracks, r.voice)
	r.sessions[guildID] = s
	return s
}

// StopAll tears down every active session, used during shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.mu.Lock()
		if s.conn != nil {
			s.stopLocked()
		}
		s.mu.Unlock()
	}
}
