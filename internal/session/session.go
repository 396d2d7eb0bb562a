// Package session keeps per-browser state (transcript and current page) in an
// in-memory store with idle expiry. Nothing survives a restart.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/kepler-college/campusbot/internal/chat"
)

// Page identifies which main view is displayed.
type Page string

const (
	PageChat  Page = "chat"
	PageAbout Page = "about"
)

// ParsePage maps a raw query parameter to a Page. An empty value is the chat
// page; unknown values return ok == false.
func ParsePage(raw string) (p Page, ok bool) {
	switch Page(raw) {
	case "", PageChat:
		return PageChat, true
	case PageAbout:
		return PageAbout, true
	default:
		return PageChat, false
	}
}

// Session is the state owned by one browser session.
type Session struct {
	ID         string
	Transcript *chat.Transcript
	CreatedAt  time.Time

	mu   sync.Mutex
	page Page
}

func newSession() *Session {
	return &Session{
		ID:         uuid.New().String(),
		Transcript: chat.NewTranscript(),
		CreatedAt:  time.Now(),
		page:       PageChat,
	}
}

// Page returns the page last selected in this session.
func (s *Session) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SetPage records the selected page. The transcript is left untouched.
func (s *Session) SetPage(p Page) {
	s.mu.Lock()
	s.page = p
	s.mu.Unlock()
}

// Store holds live sessions. Each access pushes a session's expiry back by
// the idle TTL.
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore creates a store whose sessions expire after ttl without use.
// A zero ttl keeps sessions for the life of the process.
func NewStore(ttl time.Duration) *Store {
	expiry, cleanup := cache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiry, cleanup = ttl, ttl/2
		if cleanup < time.Minute {
			cleanup = time.Minute
		}
	}
	return &Store{cache: cache.New(expiry, cleanup), ttl: expiry}
}

// Get returns the live session with the given ID.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	s.cache.Set(id, sess, s.ttl)
	return sess, true
}

// GetOrCreate returns the session for id, or a new session with a fresh ID
// when id is empty, unknown or expired. created reports the latter.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	for {
		sess = newSession()
		if err := s.cache.Add(sess.ID, sess, s.ttl); err == nil {
			return sess, true
		}
	}
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}
