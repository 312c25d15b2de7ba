package session

import (
	"sync"

	"github.com/avolkov/paynotify/internal/tabular"
)

// Состояние загрузки одного чата: две таблицы по порядку и загрузивший пользователь.
// Сессия живет до завершения обработки или команды /start, таймаута нет
type Session struct {
	Payments   *tabular.Table
	Registry   *tabular.Table
	UploaderID int64
}

type Sessions struct {
	mutex    sync.Mutex
	sessions map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[int64]*Session)}
}

// Get возвращает сессию чата, создавая ее при первом обращении
func (s *Sessions) Get(chatID int64) *Session {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		session = &Session{}
		s.sessions[chatID] = session
	}
	return session
}

func (s *Sessions) Reset(chatID int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.sessions, chatID)
}
