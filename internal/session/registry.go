// Package session keeps one set of mounted views per browser session so that
// every visitor drives an independent client.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-admin/internal/models"
	"github.com/noah-isme/sma-adp-admin/internal/view"
)

// ViewFactory builds a fresh, unmounted controller for kind.
type ViewFactory func(kind models.Kind) *view.Controller

// Gauge receives the live session count.
type Gauge interface {
	SetActiveSessions(n int)
}

// Session is one browser's state.
type Session struct {
	ID string

	mu       sync.Mutex
	views    map[string]*view.Controller
	lastSeen time.Time
	factory  ViewFactory
}

// View returns the session's controller for kind, creating it on first use.
// The caller mounts it.
func (s *Session) View(kind models.Kind) *view.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.views[kind.Name]; ok {
		return c
	}
	c := s.factory(kind)
	s.views[kind.Name] = c
	return c
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() {
	s.mu.Lock()
	views := s.views
	s.views = map[string]*view.Controller{}
	s.mu.Unlock()
	for _, c := range views {
		c.Close()
	}
}

// Registry tracks live sessions and unmounts the views of idle ones.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	factory  ViewFactory
	gauge    Gauge
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistry constructs an empty registry.
func NewRegistry(factory ViewFactory, ttl time.Duration, gauge Gauge, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		factory:  factory,
		gauge:    gauge,
		logger:   logger,
		now:      time.Now,
	}
}

// Acquire returns the live session with id, or a new session when id is
// unknown or expired. created reports whether a new session was issued.
func (r *Registry) Acquire(id string) (sess *Session, created bool) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok && s.idleSince(now) < r.ttl {
		s.touch(now)
		return s, false
	}

	s := &Session{
		ID:       uuid.NewString(),
		views:    make(map[string]*view.Controller),
		lastSeen: now,
		factory:  r.factory,
	}
	r.sessions[s.ID] = s
	r.publish()
	return s, true
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes and forgets sessions idle for longer than the TTL.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.idleSince(now) >= r.ttl {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.publish()
	r.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		r.logger.Info("sessions expired", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes every session.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// CloseAll unmounts every view of every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.publish()
	r.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

// publish must be called with r.mu held.
func (r *Registry) publish() {
	if r.gauge != nil {
		r.gauge.SetActiveSessions(len(r.sessions))
	}
}
