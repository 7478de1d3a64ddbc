package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"secrethitler/internal/engine"
	"secrethitler/internal/lobby"
)

// Registry owns every running session. Create one at startup and share it.
type Registry struct {
	opts     Options
	notifier Notifier

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(opts Options, notifier Notifier) *Registry {
	return &Registry{
		opts:     opts,
		notifier: notifier,
		sessions: make(map[string]*Session),
	}
}

// Host creates a session with the caller as host.
func (r *Registry) Host(name string) (*Session, *lobby.Member, error) {
	s, host, err := New(uuid.NewString(), name, r.opts, r.notifier)
	if err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	log.Printf("registry: session %s hosted by %s", s.ID(), host.Name)
	return s, host, nil
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, engine.ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep reclaims sessions that have had nobody connected for longer than
// the idle timeout. It returns the IDs removed.
func (r *Registry) Sweep(now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for id, s := range r.sessions {
		if s.closeIfIdle(now, r.opts.IdleTimeout) {
			delete(r.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, id := range r.Sweep(now) {
				log.Printf("registry: reclaimed idle session %s", id)
			}
		}
	}
}
