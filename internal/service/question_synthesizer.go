package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

var (
	ErrNoQuestionText   = errors.New("word has no question text for relation")
	ErrNoAnswerText     = errors.New("word has no answer text for relation")
	ErrNoDistractors    = errors.New("no distractor available")
	ErrUnsupportedMode  = errors.New("relation does not support mode")
	ErrRelationMismatch = errors.New("relation belongs to another table")
)

const (
	// maxDistractors is the number of wrong options of a multiple choice question.
	maxDistractors  = 3
	answerSeparator = " / "
)

// QuestionSynthesizer turns a word, a relation and a mode into a StudyQuestion.
type QuestionSynthesizer struct {
	rng RandomSource
}

// NewQuestionSynthesizer creates a new QuestionSynthesizer.
func NewQuestionSynthesizer(rng RandomSource) *QuestionSynthesizer {
	return &QuestionSynthesizer{rng: rng}
}

// Synthesize builds a question for w. Distractors are drawn from the answers
// of pool, which is usually the rest of the word's table.
func (s *QuestionSynthesizer) Synthesize(
	w *entities.Word,
	rel *entities.Relation,
	mode entities.Mode,
	pool []*entities.Word,
) (*entities.StudyQuestion, error) {
	if w.TableID != rel.TableID {
		return nil, fmt.Errorf("word %d, relation %d: %w", w.ID, rel.ID, ErrRelationMismatch)
	}
	if !rel.Supports(mode) {
		return nil, fmt.Errorf("%s on relation %d: %w", mode, rel.ID, ErrUnsupportedMode)
	}

	question := questionText(w, rel)
	if question == "" {
		return nil, fmt.Errorf("word %d: %w", w.ID, ErrNoQuestionText)
	}
	answer := answerText(w, rel)
	if answer == "" {
		return nil, fmt.Errorf("word %d: %w", w.ID, ErrNoAnswerText)
	}

	q := &entities.StudyQuestion{
		Mode:     mode,
		Word:     w,
		Relation: rel,
		Question: question,
		Answer:   answer,
	}

	var wrong []string
	if mode.NeedsDistractors() {
		count := maxDistractors
		if mode == entities.ModeTrueFalse {
			count = 1
		}
		wrong = s.distractors(w, rel, pool, answer, count)
		if len(wrong) == 0 {
			return nil, fmt.Errorf("word %d: %w", w.ID, ErrNoDistractors)
		}
	}

	switch mode {
	case entities.ModeMultipleChoice:
		options := append([]string{answer}, wrong...)
		s.rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		q.Options = options

	case entities.ModeTrueFalse:
		if coinFlip(s.rng) {
			q.Displayed, q.TFIsCorrect = answer, true
		} else {
			q.Displayed, q.TFIsCorrect = wrong[0], false
		}

	case entities.ModeScrambled:
		q.Tiles = s.tiles(answer)

	case entities.ModeTyping:
	default:
		return nil, fmt.Errorf("%s: %w", mode, ErrUnsupportedMode)
	}

	return q, nil
}

// distractors picks up to count answers of other words that differ from the correct one.
func (s *QuestionSynthesizer) distractors(
	w *entities.Word,
	rel *entities.Relation,
	pool []*entities.Word,
	correct string,
	count int,
) []string {
	candidates := make([]*entities.Word, 0, len(pool))
	for _, c := range pool {
		if c != nil && c.ID != w.ID {
			candidates = append(candidates, c)
		}
	}

	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	out := make([]string, 0, count)
	for _, c := range candidates {
		if len(out) >= count {
			break
		}

		text := answerText(c, rel)
		if text == "" || strings.EqualFold(text, correct) {
			continue
		}

		duplicate := false
		for _, existing := range out {
			if strings.EqualFold(existing, text) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, text)
		}
	}
	return out
}

// tiles returns the non-space letters of answer in shuffled order.
func (s *QuestionSynthesizer) tiles(answer string) []string {
	var out []string
	for _, r := range answer {
		if r == ' ' {
			continue
		}
		out = append(out, string(r))
	}
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// questionText renders the non-empty question columns as "column: value" lines.
func questionText(w *entities.Word, rel *entities.Relation) string {
	lines := make([]string, 0, len(rel.QuestionColumns))
	for _, col := range rel.QuestionColumns {
		if v := strings.TrimSpace(w.Value(col)); v != "" {
			lines = append(lines, col+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

// answerText joins the non-empty answer columns.
func answerText(w *entities.Word, rel *entities.Relation) string {
	parts := make([]string, 0, len(rel.AnswerColumns))
	for _, col := range rel.AnswerColumns {
		if v := strings.TrimSpace(w.Value(col)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, answerSeparator)
}
