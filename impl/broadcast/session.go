package broadcast

import (
	"sync"
	"time"
)

const DefaultTTL = 10 * time.Minute

// Sessions tracks which admins are in broadcast mode. An entry is the expiry
// time; expired entries are dropped when they are looked at.
type Sessions struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	expiry map[int64]time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sessions{
		ttl:    ttl,
		now:    time.Now,
		expiry: make(map[int64]time.Time),
	}
}

// Open starts or extends a session for the admin chat.
func (s *Sessions) Open(chatId int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiry[chatId] = s.now().Add(s.ttl)
}

func (s *Sessions) Active(chatId int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked(chatId)
}

// Clear ends the session and reports whether one was active.
func (s *Sessions) Clear(chatId int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := s.activeLocked(chatId)
	delete(s.expiry, chatId)
	return active
}

func (s *Sessions) activeLocked(chatId int64) bool {
	until, ok := s.expiry[chatId]
	if !ok {
		return false
	}
	if !s.now().Before(until) {
		delete(s.expiry, chatId)
		return false
	}
	return true
}
