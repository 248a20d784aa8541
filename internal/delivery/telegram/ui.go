package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// trueFalseOptions are the choices of a true/false question, by button index.
var trueFalseOptions = []string{entities.AnswerTrue, entities.AnswerFalse}

// buildQuestionKeyboard builds the keyboard for a question. Questions answered
// by text only get the quit button.
func buildQuestionKeyboard(q *entities.StudyQuestion) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	switch q.Mode {
	case entities.ModeMultipleChoice:
		for i, opt := range q.Options {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(opt, buildAnswerCallback(q.WordID(), i)),
			))
		}
	case entities.ModeTrueFalse:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ True", buildAnswerCallback(q.WordID(), 0)),
			tgbotapi.NewInlineKeyboardButtonData("❌ False", buildAnswerCallback(q.WordID(), 1)),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🚪 Quit", buildStudyCallback(studyQuit)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildResultKeyboard builds keyboard for the session results screen.
func buildResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 New session", buildStudyCallback(studyStart)),
		),
	)
}

// optionAnswer resolves a pressed button to the answer text it stands for.
func optionAnswer(q *entities.StudyQuestion, option int) (string, bool) {
	switch q.Mode {
	case entities.ModeMultipleChoice:
		if option < len(q.Options) {
			return q.Options[option], true
		}
	case entities.ModeTrueFalse:
		if option < len(trueFalseOptions) {
			return trueFalseOptions[option], true
		}
	}
	return "", false
}

// answeredByText reports whether the question expects a typed reply.
func answeredByText(q *entities.StudyQuestion) bool {
	return q.Mode == entities.ModeTyping || q.Mode == entities.ModeScrambled
}
