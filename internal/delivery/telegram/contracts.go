package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
	"github.com/aliskhannn/vocab-trainer-bot/internal/service"
	"github.com/aliskhannn/vocab-trainer-bot/internal/storage"
)

// BotAPI is the part of the Telegram client the handler talks to.
type BotAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) (bool, error)
}

type StudyService interface {
	Policy(ctx context.Context, userID int64) (*entities.SelectionPolicy, error)
	Active(userID int64) (*service.Session, bool)
	Start(ctx context.Context, userID int64) (*service.Session, error)
	Answer(ctx context.Context, userID int64, index int, answer string) (service.AnswerOutcome, *entities.SessionResult, error)
	Quit(ctx context.Context, userID int64) (entities.SessionResult, error)
	SetWordCount(ctx context.Context, userID int64, n int) error
	SetModes(ctx context.Context, userID int64, modes []entities.Mode, randomize bool) error
}

type MessageStorage interface {
	UpsertAndGetPrev(userID int64, chatID int64, messageID int) (storage.QuestionMessage, bool)
	Get(userID int64) (storage.QuestionMessage, bool)
	Delete(userID int64)
}
