package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	userID := cb.From.ID
	cd := decodeCallback(cb.Data)

	switch cd.Action {
	case actionAnswer:
		h.handleAnswerCallback(ctx, cb, cd)
		return

	case actionStudy:
		h.answerCallback(cb.ID, "")
		if len(cd.Params) != 1 {
			return
		}
		switch cd.Params[0] {
		case studyStart:
			_ = h.withErrorHandling(h.handleStudy(userID))(ctx, chatID)
		case studyQuit:
			_ = h.withErrorHandling(h.handleQuit(userID))(ctx, chatID)
		}
		return
	}

	h.logger.Warn("unknown callback",
		zap.Int64("user_id", userID),
		zap.String("data", cb.Data),
	)
	h.answerCallback(cb.ID, "")
}

// handleAnswerCallback submits the option behind a pressed button. Buttons of
// any message other than the last question sent, or of a question that is no
// longer at the head of the queue, are rejected.
func (h *Handler) handleAnswerCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	wordID, option, err := parseAnswerCallback(cd)
	if err != nil {
		h.logger.Warn("invalid answer callback",
			zap.String("data", cd.Raw),
			zap.Error(err),
		)
		h.answerCallback(cb.ID, "")
		return
	}

	session, ok := h.study.Active(userID)
	if !ok {
		h.answerCallback(cb.ID, msgNoSession)
		h.removeKeyboard(chatID, cb.Message.MessageID)
		return
	}

	current, ok := h.messages.Get(userID)
	if !ok || current.MessageID != cb.Message.MessageID {
		h.answerCallback(cb.ID, msgStaleQuestion)
		h.removeKeyboard(chatID, cb.Message.MessageID)
		return
	}

	q := session.Current()
	if q == nil || q.WordID() != wordID {
		h.answerCallback(cb.ID, msgStaleQuestion)
		return
	}

	answer, ok := optionAnswer(q, option)
	if !ok {
		h.answerCallback(cb.ID, msgStaleQuestion)
		return
	}

	// Remove the user's "clock".
	h.answerCallback(cb.ID, "")

	_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
		return h.submitAnswer(ctx, chatID, userID, answer)
	})(ctx, chatID)
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}
