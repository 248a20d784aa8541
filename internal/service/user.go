package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
	now        func() time.Time
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{repository: repository, now: time.Now}
}

// EnsureUser registers the user on first contact and reports whether it was created.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) (bool, error) {
	exists, err := s.repository.Exists(ctx, userID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	created, err := s.repository.Save(ctx, entities.NewUser(userID, chatID, s.now()))
	if err != nil {
		return false, fmt.Errorf("ensure user: %w", err)
	}
	return created, nil
}
