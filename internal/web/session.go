package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Zachkp/quantum-portfolio/internal/quantum"
	"github.com/Zachkp/quantum-portfolio/internal/shell"
)

// Session is one browser's key bus and game host. Handlers hold mu while
// touching either.
type Session struct {
	ID string

	mu       sync.Mutex
	keys     shell.Keys
	host     *shell.Host
	detach   func()
	lastSeen time.Time
}

// Do runs fn with the session locked.
func (s *Session) Do(fn func(keys *shell.Keys, host *shell.Host)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.keys, s.host)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.host.Close()
	s.detach()
}

// SessionStore keeps sessions in memory only; nothing survives a restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	toggle   rune
	newGame  func() *quantum.Game
	now      func() time.Time
	log      zerolog.Logger
}

func NewSessionStore(ttl time.Duration, toggle rune, newGame func() *quantum.Game, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		toggle:   toggle,
		newGame:  newGame,
		now:      time.Now,
		log:      log.With().Str("component", "sessions").Logger(),
	}
}

// Lookup returns the live session for id and marks it as seen. It returns
// nil when id is unknown or has expired; it never creates a session.
func (st *SessionStore) Lookup(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lookup(id, st.now())
}

// Get returns the live session for id, creating a new one when id is
// unknown or expired.
func (st *SessionStore) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	if s := st.lookup(id, now); s != nil {
		return s
	}

	s := &Session{
		ID:       uuid.NewString(),
		host:     shell.NewHost(st.toggle, st.newGame),
		lastSeen: now,
	}
	s.detach = s.host.Attach(&s.keys)
	st.sessions[s.ID] = s
	st.log.Debug().Str("session", s.ID).Msg("session created")
	return s
}

// lookup must be called with st.mu held.
func (st *SessionStore) lookup(id string, now time.Time) *Session {
	s, ok := st.sessions[id]
	if !ok {
		return nil
	}
	if now.Sub(s.lastSeen) > st.ttl {
		delete(st.sessions, id)
		s.close()
		return nil
	}
	s.lastSeen = now
	return s
}

// ToggleKey is the key every session's host reacts to.
func (st *SessionStore) ToggleKey() rune {
	return shell.NewHost(st.toggle, nil).ToggleKey()
}

// TTL is how long a session may stay idle.
func (st *SessionStore) TTL() time.Duration { return st.ttl }

// Sweep drops sessions idle for longer than the TTL.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	var expired []*Session
	now := st.now()
	for id, s := range st.sessions {
		if now.Sub(s.lastSeen) > st.ttl {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		st.log.Debug().Int("expired", len(expired)).Msg("sessions swept")
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Run sweeps every interval until ctx is done.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st.Sweep()
		}
	}
}
