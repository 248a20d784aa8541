package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-trainer-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// userErrors maps errors a user can cause to the reply they get.
var userErrors = []struct {
	err error
	msg string
}{
	{service.ErrNoActiveSession, msgNoSession},
	{service.ErrSessionActive, msgSessionActive},
	{service.ErrNoQuestionsAvailable, msgNoQuestions},
	{service.ErrInvalidWordCount, msgInvalidCount},
	{service.ErrNoModes, msgInvalidModes},
}

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		for _, ue := range userErrors {
			if errors.Is(err, ue.err) {
				h.sendError(chatID, ue.msg)
				return nil
			}
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}
