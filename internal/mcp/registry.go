package mcp

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/Rodriguespn/skybridge/pkg/errors"
)

var sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "skybridge_sessions_active",
	Help: "Current number of live tool-calling sessions",
})

// Registry owns every live Session from creation to deletion. All map
// mutations are serialized; a lookup racing a removal of the same id either
// sees the session or gets ErrSessionNotFound, never a half-destroyed one.
// The lock is never held while a request is dispatched.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *slog.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Resolve returns the session for the given id. An empty id creates a new
// session under a freshly generated token; collisions are avoided at the
// id-generation level. A non-empty unknown id yields ErrSessionNotFound.
func (r *Registry) Resolve(id string) (*Session, error) {
	if id == "" {
		sess := newSession(uuid.New().String())

		r.mu.Lock()
		r.sessions[sess.ID()] = sess
		r.mu.Unlock()

		sessionsActive.Inc()
		r.logger.Debug("session created", slog.String("session_id", sess.ID()))
		return sess, nil
	}

	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return sess, nil
}

// Remove deletes the session and returns it so the caller can finish the
// close transition. Removing an unknown id yields ErrSessionNotFound; a
// second removal of the same id is therefore a not-found outcome, not a
// fault.
func (r *Registry) Remove(id string) (*Session, error) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	sessionsActive.Dec()
	r.logger.Debug("session removed", slog.String("session_id", id))
	return sess, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
