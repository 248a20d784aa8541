package service

import (
	"context"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

// LibraryRepository loads the word tables and relations of a user.
// Tables come with their words and statistics.
type LibraryRepository interface {
	GetTables(ctx context.Context, userID int64) ([]*entities.Table, error)
	GetRelations(ctx context.Context, userID int64) ([]*entities.Relation, error)
}

// PolicyRepository stores one selection policy per user.
// GetByUserID returns repository.ErrPolicyNotFound when none is stored.
type PolicyRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*entities.SelectionPolicy, error)
	Upsert(ctx context.Context, userID int64, policy *entities.SelectionPolicy) error
}

type StatisticsRepository interface {
	SaveStatistics(ctx context.Context, updates []entities.StatisticsUpdate) error
}

// SessionStorage keeps the active session of each user.
type SessionStorage interface {
	Store(userID int64, s *Session)
	Get(userID int64) (*Session, bool)
	Delete(userID int64)
	UserIDs() []int64
}
