package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
	"github.com/aliskhannn/vocab-trainer-bot/internal/service"
)

// quitCommand ends the session early.
const quitCommand = ":q"

type studyService interface {
	Start(ctx context.Context, userID int64) (*service.Session, error)
	Answer(ctx context.Context, userID int64, index int, answer string) (service.AnswerOutcome, *entities.SessionResult, error)
	Quit(ctx context.Context, userID int64) (entities.SessionResult, error)
}

type drill struct {
	study studyService
	in    *bufio.Scanner
	out   io.Writer
}

// session runs one session until every word is mastered, the user quits or
// input ends.
func (d *drill) session(ctx context.Context) error {
	session, err := d.study.Start(ctx, drillUser)
	if err != nil {
		return err
	}

	fmt.Fprintf(d.out, "Studying %d words. Type %s to quit.\n", session.Total(), quitCommand)

	for {
		q := session.Current()
		if q == nil {
			return service.ErrNoActiveSession
		}
		fmt.Fprintf(d.out, "\n[%d/%d] %s\n", session.Mastered(), session.Total(), renderQuestion(q))
		fmt.Fprint(d.out, "> ")

		line, ok := d.readLine(ctx)
		if !ok || strings.TrimSpace(line) == quitCommand {
			result, err := d.study.Quit(ctx, drillUser)
			if err != nil {
				return err
			}
			fmt.Fprintln(d.out, renderResult(result, true))
			return nil
		}

		outcome, result, err := d.study.Answer(ctx, drillUser, 0, resolveAnswer(q, line))
		if err != nil {
			return err
		}
		fmt.Fprintln(d.out, renderOutcome(outcome))

		if result != nil {
			fmt.Fprintln(d.out, renderResult(*result, false))
			return nil
		}
	}
}

func (d *drill) readLine(ctx context.Context) (string, bool) {
	if ctx.Err() != nil || !d.in.Scan() {
		return "", false
	}
	return d.in.Text(), true
}

func renderQuestion(q *entities.StudyQuestion) string {
	var sb strings.Builder
	sb.WriteString(q.Question)

	switch q.Mode {
	case entities.ModeMultipleChoice:
		for i, opt := range q.Options {
			fmt.Fprintf(&sb, "\n  %d) %s", i+1, opt)
		}
	case entities.ModeTrueFalse:
		fmt.Fprintf(&sb, "\n  is it %q? (t/f)", q.Displayed)
	case entities.ModeScrambled:
		fmt.Fprintf(&sb, "\n  unscramble: %s", strings.Join(q.Tiles, " "))
	}

	return sb.String()
}

// resolveAnswer maps shortcuts to answers: option numbers for multiple
// choice and t/f or y/n for true/false.
func resolveAnswer(q *entities.StudyQuestion, line string) string {
	line = strings.TrimSpace(line)

	switch q.Mode {
	case entities.ModeMultipleChoice:
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1]
		}
	case entities.ModeTrueFalse:
		switch strings.ToLower(line) {
		case "t", "true", "y", "yes":
			return entities.AnswerTrue
		case "f", "false", "n", "no":
			return entities.AnswerFalse
		}
	}

	return line
}

func renderOutcome(o service.AnswerOutcome) string {
	switch {
	case o.Correct && o.State == entities.StatePass2:
		return "correct, mastered"
	case o.Correct:
		return "correct"
	case o.NearMiss:
		return fmt.Sprintf("almost: %s", o.Answer)
	default:
		return fmt.Sprintf("wrong: %s", o.Answer)
	}
}

func renderResult(r entities.SessionResult, quit bool) string {
	status := "complete"
	if quit {
		status = "quit"
	}
	return fmt.Sprintf("\nsession %s: %d words practiced, %d xp, %ds", status, len(r.Items), r.XP, r.ElapsedSeconds)
}
