package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
	"github.com/aliskhannn/vocab-trainer-bot/internal/service"
)

// randomToken in /modes arguments picks modes at random instead of in turn.
const randomToken = "random"

func (h *Handler) handleStudy(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, err := h.study.Start(ctx, userID)
		if errors.Is(err, service.ErrSessionActive) {
			h.sendError(chatID, msgSessionActive)
			if active, ok := h.study.Active(userID); ok {
				return h.sendQuestion(chatID, userID, active)
			}
			return nil
		}
		if err != nil {
			return err
		}

		return h.sendQuestion(chatID, userID, session)
	}
}

func (h *Handler) handleQuit(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		result, err := h.study.Quit(ctx, userID)
		if err != nil {
			return err
		}

		h.clearQuestion(userID)
		h.sendResult(chatID, result)
		return nil
	}
}

func (h *Handler) handleCount(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		n, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			h.sendError(chatID, msgInvalidCount)
			return nil
		}

		if err := h.study.SetWordCount(ctx, userID, n); err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, fmt.Sprintf("📝 Sessions now have up to %d words.", n)))
		return nil
	}
}

func (h *Handler) handleModes(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) != "" {
			modes, randomize, err := parseModes(args)
			if err != nil {
				h.sendError(chatID, msgInvalidModes)
				return nil
			}
			if err := h.study.SetModes(ctx, userID, modes, randomize); err != nil {
				return err
			}
		}

		policy, err := h.study.Policy(ctx, userID)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, formatPolicy(policy)))
		return nil
	}
}

// handleText treats plain text as the answer to a typing or scrambled question.
func (h *Handler) handleText(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, ok := h.study.Active(userID)
		if !ok {
			h.send(newHTMLMessage(chatID, msgNothingToAnswer))
			return nil
		}

		q := session.Current()
		if q == nil {
			return service.ErrNoActiveSession
		}
		if !answeredByText(q) {
			h.send(newHTMLMessage(chatID, msgUseButtons))
			return nil
		}

		return h.submitAnswer(ctx, chatID, userID, text)
	}
}

// submitAnswer grades an answer to the head of the queue, replies with
// feedback and moves on to the next question or the results.
func (h *Handler) submitAnswer(ctx context.Context, chatID, userID int64, answer string) error {
	outcome, result, err := h.study.Answer(ctx, userID, 0, answer)
	if err != nil {
		return err
	}

	h.logger.Debug("answer graded",
		zap.Int64("user_id", userID),
		zap.Int64("word_id", outcome.WordID),
		zap.Bool("correct", outcome.Correct),
		zap.Stringer("state", outcome.State),
	)

	h.send(newHTMLMessage(chatID, formatOutcome(outcome)))

	if result != nil {
		h.clearQuestion(userID)
		h.sendResult(chatID, *result)
		return nil
	}

	session, ok := h.study.Active(userID)
	if !ok {
		return service.ErrNoActiveSession
	}
	return h.sendQuestion(chatID, userID, session)
}

// sendQuestion shows the head of the queue and retires the keyboard of the
// question shown before it.
func (h *Handler) sendQuestion(chatID, userID int64, session *service.Session) error {
	q := session.Current()
	if q == nil {
		return service.ErrNoActiveSession
	}

	msg := newHTMLMessage(chatID, formatQuestion(q, session.Mastered(), session.Total()))
	msg.ReplyMarkup = buildQuestionKeyboard(q)

	sent, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send question: %w", err)
	}

	if prev, ok := h.messages.UpsertAndGetPrev(userID, chatID, sent.MessageID); ok && prev.MessageID != sent.MessageID {
		h.removeKeyboard(prev.ChatID, prev.MessageID)
	}
	return nil
}

func (h *Handler) sendResult(chatID int64, result entities.SessionResult) {
	msg := newHTMLMessage(chatID, formatResult(result))
	msg.ReplyMarkup = buildResultKeyboard()
	h.send(msg)
}

// NotifySessionExpired tells the user that an idle session was closed. Users
// without a question message on record are skipped.
func (h *Handler) NotifySessionExpired(_ context.Context, userID int64, result entities.SessionResult) {
	prev, ok := h.messages.Get(userID)
	if !ok {
		return
	}
	h.clearQuestion(userID)

	msg := newHTMLMessage(prev.ChatID, msgSessionExpired+"\n\n"+formatResult(result))
	msg.ReplyMarkup = buildResultKeyboard()
	h.send(msg)
}

// clearQuestion removes the keyboard of the user's last question.
func (h *Handler) clearQuestion(userID int64) {
	prev, ok := h.messages.Get(userID)
	if !ok {
		return
	}
	h.messages.Delete(userID)
	h.removeKeyboard(prev.ChatID, prev.MessageID)
}

func (h *Handler) removeKeyboard(chatID int64, messageID int) {
	h.request(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	}))
}

// parseModes reads mode names separated by spaces or commas. The token
// "random" turns on random mode selection.
func parseModes(args string) ([]entities.Mode, bool, error) {
	fields := strings.FieldsFunc(args, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})

	var (
		modes     []entities.Mode
		randomize bool
	)
	for _, f := range fields {
		if strings.EqualFold(f, randomToken) {
			randomize = true
			continue
		}
		m, err := entities.ParseMode(f)
		if err != nil {
			return nil, false, err
		}
		modes = append(modes, m)
	}

	if len(modes) == 0 {
		return nil, false, service.ErrNoModes
	}
	return modes, randomize, nil
}
