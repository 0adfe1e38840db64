package service

import (
	"grade_predictor/internal/model"
	"grade_predictor/internal/util"
	"grade_predictor/pkg/monitoring"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one user's form, its latest submission and the theme it is
// displayed with. It lives in memory only.
type Session struct {
	ID         string
	Submission *Submission

	mu    sync.Mutex
	form  *FormState
	theme model.Theme

	lastSeen time.Time // guarded by SessionStore.mu
}

func newSession(now time.Time) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Submission: NewSubmission(),
		form:       NewFormState(),
		theme:      model.ThemeSystem,
		lastSeen:   now,
	}
}

// WithForm runs fn while holding the session lock. fn must not block on I/O.
func (s *Session) WithForm(fn func(form *FormState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.form)
}

func (s *Session) Theme() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Session) SetTheme(t model.Theme) {
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()
}

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (st *SessionStore) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := newSession(st.now())
	st.sessions[s.ID] = s
	monitoring.ActiveSessions.Set(float64(len(st.sessions)))
	return s
}

// Get returns a live session and marks it as used. Expired sessions are
// dropped on access.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	now := st.now()
	if now.Sub(s.lastSeen) > st.ttl {
		delete(st.sessions, id)
		monitoring.ActiveSessions.Set(float64(len(st.sessions)))
		return nil, util.ErrSessionNotFound
	}
	s.lastSeen = now
	return s, nil
}

// GetOrCreate returns the session for id, or a fresh one when id is unknown
// or expired. created tells the caller to hand out the new ID.
func (st *SessionStore) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, err := st.Get(id); err == nil {
			return s, false
		}
	}
	return st.Create(), true
}

// Sweep removes expired sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.lastSeen) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	monitoring.ActiveSessions.Set(float64(len(st.sessions)))
	return removed
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// StartJanitor sweeps expired sessions every interval until Stop.
func (st *SessionStore) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				st.Sweep()
			case <-st.stop:
				return
			}
		}
	}()
}

func (st *SessionStore) Stop() {
	st.stopOnce.Do(func() { close(st.stop) })
}
