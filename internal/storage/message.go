package storage

import (
	"sync"
	"time"
)

// QuestionMessage identifies the chat message that shows a question.
type QuestionMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// MessageStorage remembers the last question message sent to each user,
// so its keyboard can be removed once the question is answered.
type MessageStorage struct {
	mu       sync.RWMutex
	messages map[int64]QuestionMessage
	now      func() time.Time
}

func NewMessageStorage() *MessageStorage {
	return &MessageStorage{
		messages: make(map[int64]QuestionMessage),
		now:      time.Now,
	}
}

func (s *MessageStorage) Get(userID int64) (QuestionMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[userID]
	return msg, ok
}

func (s *MessageStorage) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, userID)
}

// UpsertAndGetPrev stores the new message and returns the one it replaces.
func (s *MessageStorage) UpsertAndGetPrev(userID int64, chatID int64, messageID int) (prev QuestionMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[userID]

	s.messages[userID] = QuestionMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    s.now(),
	}

	return prev, hadPrev
}
