package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/essenciabjj/trial/internal/wizard"
)

type session struct {
	wiz      *wizard.Wizard
	lastSeen time.Time
}

// Sessions keeps one booking wizard per visitor, keyed by an opaque cookie.
// Nothing is persisted; idle sessions are dropped by Sweep.
type Sessions struct {
	newWizard func() *wizard.Wizard
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger

	mu sync.Mutex
	m  map[string]*session
}

func NewSessions(newWizard func() *wizard.Wizard, ttl time.Duration, logger *zap.Logger) *Sessions {
	return &Sessions{
		newWizard: newWizard,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
		m:         make(map[string]*session),
	}
}

// Wizard returns the visitor's wizard, starting a new session when the
// cookie is missing, unknown or expired.
func (s *Sessions) Wizard(w http.ResponseWriter, r *http.Request) *wizard.Wizard {
	id := readSessionCookie(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.m[id]; ok && now.Sub(sess.lastSeen) < s.ttl {
		sess.lastSeen = now
		return sess.wiz
	}

	id = uuid.NewString()
	sess := &session{wiz: s.newWizard(), lastSeen: now}
	s.m[id] = sess
	setSessionCookie(w, id, s.ttl)
	return sess.wiz
}

// Lookup finds an existing session without creating one.
func (s *Sessions) Lookup(r *http.Request) (*wizard.Wizard, bool) {
	id := readSessionCookie(r)
	if id == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.m[id]
	if !ok || s.now().Sub(sess.lastSeen) >= s.ttl {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.wiz, true
}

// Sweep removes sessions idle for longer than the TTL and reports how many.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, sess := range s.m {
		if now.Sub(sess.lastSeen) >= s.ttl {
			delete(s.m, id)
			n++
		}
	}
	return n
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Sessions) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("expired sessions swept", zap.Int("count", n), zap.Int("remaining", s.Len()))
			}
		}
	}
}
