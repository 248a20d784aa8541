package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot      BotAPI
	logger   *zap.Logger
	users    UserService
	study    StudyService
	messages MessageStorage
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	users UserService,
	study StudyService,
	messages MessageStorage,
) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		users:    users,
		study:    study,
		messages: messages,
	}
}

// Run polls updates until ctx is cancelled. Updates are handled one at a
// time, so a user's session is never touched concurrently.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	created, err := h.users.EnsureUser(ctx, from.ID, chatID)
	if err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	} else if created {
		h.logger.Info("user registered", zap.Int64("user_id", from.ID))
	}

	if update.Message.IsCommand() {
		args := update.Message.CommandArguments()

		switch update.Message.Command() {
		case "start":
			h.send(newHTMLMessage(chatID, msgWelcome))
		case "help":
			h.send(newHTMLMessage(chatID, msgHelp))
		case "study":
			_ = h.withErrorHandling(h.handleStudy(from.ID))(ctx, chatID)
		case "quit":
			_ = h.withErrorHandling(h.handleQuit(from.ID))(ctx, chatID)
		case "count":
			_ = h.withErrorHandling(h.handleCount(from.ID, args))(ctx, chatID)
		case "modes":
			_ = h.withErrorHandling(h.handleModes(from.ID, args))(ctx, chatID)
		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}

		return
	}

	_ = h.withErrorHandling(h.handleText(from.ID, update.Message.Text))(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, err string) {
	h.send(newHTMLMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.Warn("telegram request failed",
			zap.Error(err),
		)
	}
}
