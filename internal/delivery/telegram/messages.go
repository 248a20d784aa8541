// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
	"github.com/aliskhannn/vocab-trainer-bot/internal/service"
)

const msgWelcome = "👋 <b>Welcome to the vocabulary trainer!</b>\n\n" +
	"Every session picks the words you need most and asks them until you get each one right twice in a row.\n\n" +
	"/study to start a session, /help for the other commands."

const msgHelp = "<b>Commands</b>\n\n" +
	"/study — start a study session\n" +
	"/quit — end the current session\n" +
	"/count N — words per session (1–200)\n" +
	"/modes — show the study modes\n" +
	"/modes typing true_false — choose modes, add <code>random</code> to mix them at random\n\n" +
	"Multiple choice and true/false are answered with the buttons, typing and scrambled questions by sending the answer."

// Error messages.
const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgUnknownCommand  = "Unknown command. Send /help to see what I can do."
	msgNoSession       = "You have no running session. Send /study to start one."
	msgSessionActive   = "You already have a session running. Answer the question or send /quit."
	msgNoQuestions     = "There are no words to study. Add words to your tables or choose other modes."
	msgInvalidCount    = "Send a number from 1 to 200, for example /count 15."
	msgInvalidModes    = "Unknown mode. Use multiple_choice, true_false, typing or scrambled."
	msgUseButtons      = "Please answer with the buttons under the question."
	msgStaleQuestion   = "This question is no longer active."
	msgNothingToAnswer = "Send /study to start a session."
	msgSessionExpired  = "⌛ Your session was closed after a long pause. Your progress is saved."
)

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// esc escapes plain text for HTML parse mode.
func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

var modeTitles = map[entities.Mode]string{
	entities.ModeMultipleChoice: "Multiple choice",
	entities.ModeTrueFalse:      "True or false",
	entities.ModeTyping:         "Typing",
	entities.ModeScrambled:      "Scrambled",
}

// formatQuestion renders a question with the session progress.
func formatQuestion(q *entities.StudyQuestion, mastered, total int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>%s</b> · %d/%d mastered\n", modeTitles[q.Mode], mastered, total)
	if q.Relation != nil && q.Relation.Name != "" {
		fmt.Fprintf(&sb, "<i>%s</i>\n", esc(q.Relation.Name))
	}
	sb.WriteString("\n")
	sb.WriteString(esc(q.Question))
	sb.WriteString("\n\n")

	switch q.Mode {
	case entities.ModeMultipleChoice:
		sb.WriteString("Choose the answer:")
	case entities.ModeTrueFalse:
		fmt.Fprintf(&sb, "Is this the answer?\n<b>%s</b>", esc(q.Displayed))
	case entities.ModeTyping:
		sb.WriteString("Type the answer:")
	case entities.ModeScrambled:
		fmt.Fprintf(&sb, "Unscramble: <code>%s</code>", esc(strings.Join(q.Tiles, " ")))
	}

	return sb.String()
}

// formatOutcome renders the feedback for an answer.
func formatOutcome(o service.AnswerOutcome) string {
	switch {
	case o.Correct && o.State == entities.StatePass2:
		return "✅ Correct! Word mastered."
	case o.Correct:
		return "✅ Correct!"
	case o.NearMiss:
		return fmt.Sprintf("🤏 Almost! The answer is <b>%s</b>.", esc(o.Answer))
	default:
		return fmt.Sprintf("❌ Wrong. The answer is <b>%s</b>.", esc(o.Answer))
	}
}

// formatResult renders the summary of a finished session.
func formatResult(r entities.SessionResult) string {
	title := "🏁 <b>Session complete!</b>"
	if len(r.Abandoned) > 0 {
		title = "🚪 <b>Session ended.</b>"
	}

	mastered := 0
	for _, t := range r.Items {
		if t.Passed2 > 0 {
			mastered++
		}
	}

	return fmt.Sprintf(
		"%s\n\n📚 Words practiced: %d\n✅ Mastered: %d\n⭐ XP: %d\n⏱ Time: %s",
		title,
		len(r.Items),
		mastered,
		r.XP,
		time.Duration(r.ElapsedSeconds)*time.Second,
	)
}

// formatPolicy renders the study settings of a user.
func formatPolicy(p *entities.SelectionPolicy) string {
	names := make([]string, 0, len(p.Modes))
	for _, m := range p.Modes {
		names = append(names, "<code>"+m.String()+"</code>")
	}

	order := "in turn"
	if p.RandomizeModes {
		order = "at random"
	}

	return fmt.Sprintf(
		"<b>Study settings</b>\n\n📝 Words per session: %d\n🎲 Modes (%s): %s",
		p.WordCount,
		order,
		strings.Join(names, ", "),
	)
}
