package entities

import "time"

// User is a learner known to the bot. Each user owns word tables and one
// selection policy.
type User struct {
	ID        int64 // Telegram user ID
	ChatID    int64
	IsActive  bool
	CreatedAt time.Time
}

// NewUser returns an active user registered at the given time.
func NewUser(id, chatID int64, registeredAt time.Time) *User {
	return &User{
		ID:        id,
		ChatID:    chatID,
		IsActive:  true,
		CreatedAt: registeredAt.UTC(),
	}
}
