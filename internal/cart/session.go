package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("cart session not found")
)

// Session is one register's cart. The Aggregator inside is only reachable
// through Do, which holds the session lock.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu        sync.Mutex
	cart      *Aggregator
	touchedAt atomic.Int64 // unix nanos, readable without mu
	now       func() time.Time
}

// Do runs fn with exclusive access to the session's Aggregator
func (s *Session) Do(fn func(a *Aggregator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	defer s.touch()
	return fn(s.cart)
}

func (s *Session) touch() {
	s.touchedAt.Store(s.now().UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.touchedAt.Load())
}

// Registry tracks the open cart sessions of the register
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	logger   *zap.Logger
	opts     []Option
	now      func() time.Time
}

// NewRegistry creates an empty Registry. opts are applied to every new
// session's Aggregator.
func NewRegistry(logger *zap.Logger, opts ...Option) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// Create opens a new session with an empty cart
func (r *Registry) Create() *Session {
	now := r.now()
	s := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		cart:      New(r.opts...),
		now:       r.now,
	}
	s.touchedAt.Store(now.UnixNano())

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Debug("Cart session opened", zap.String("cart_id", s.ID.String()))
	return s
}

// Get returns the session for id
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete abandons the session for id
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)

	r.logger.Debug("Cart session closed", zap.String("cart_id", id.String()))
	return nil
}

// Len returns the number of open sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions that have not been touched for longer than idle and
// returns how many were dropped. It never waits on a session that is busy
// inside Do.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

// RunReaper sweeps abandoned sessions every interval until ctx is done
func (r *Registry) RunReaper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.logger.Info("Abandoned cart sessions dropped", zap.Int("count", n))
			}
		case <-ctx.Done():
			return
		}
	}
}
