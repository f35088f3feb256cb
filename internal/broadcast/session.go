package broadcast

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// State состояние мастера рассылки
type State int

const (
	AwaitingText State = iota
	AwaitingPhoto
	AwaitingProject
	AwaitingCourses
	Confirming
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case AwaitingText:
		return "AwaitingText"
	case AwaitingPhoto:
		return "AwaitingPhoto"
	case AwaitingProject:
		return "AwaitingProject"
	case AwaitingCourses:
		return "AwaitingCourses"
	case Confirming:
		return "Confirming"
	case Committed:
		return "Committed"
	case Cancelled:
		return "Cancelled"
	default:
		return ""
	}
}

// Session черновик и текущее состояние мастера одного админа
type Session struct {
	State State
	Draft Draft
}

// Sessions хранилище сессий мастера, ключ - chat id админа.
// Протухшие черновики вычищаются по TTL.
type Sessions struct {
	cache *gocache.Cache
}

func NewSessions(ttl time.Duration, cleanupInterval time.Duration) *Sessions {
	return &Sessions{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("%d", chatID)
}

func (s *Sessions) Get(chatID int64) (Session, bool) {
	value, exists := s.cache.Get(sessionKey(chatID))
	if !exists {
		return Session{}, false
	}

	session, ok := value.(Session)
	if !ok {
		return Session{}, false
	}
	return session, true
}

func (s *Sessions) Set(chatID int64, session Session) {
	s.cache.SetDefault(sessionKey(chatID), session)
}

func (s *Sessions) Delete(chatID int64) {
	s.cache.Delete(sessionKey(chatID))
}
