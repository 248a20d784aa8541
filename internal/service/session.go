package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

var (
	ErrIndexOutOfRange   = errors.New("question index out of range")
	ErrSessionComplete   = errors.New("session is complete")
	ErrSessionQuit       = errors.New("session was quit")
	ErrSessionInProgress = errors.New("session is still in progress")
)

// failStep is how far a failed question moves back in the queue.
const failStep = 2

// Regenerator synthesizes a new question for a requeued word.
type Regenerator interface {
	Regenerate(w *entities.Word) (*entities.StudyQuestion, error)
}

// SessionOptions configures a Session.
type SessionOptions struct {
	// Regenerator, when set, replaces the question of every requeued word.
	Regenerator Regenerator
	Validator   *AnswerValidator
	Now         func() time.Time
}

// AnswerOutcome describes the effect of one answer.
type AnswerOutcome struct {
	WordID   int64
	Correct  bool
	NearMiss bool
	Answer   string // canonical answer of the graded question
	Previous entities.ItemState
	State    entities.ItemState
	Complete bool // the queue became empty
}

// Session is the state machine of one study session. It is not safe for
// concurrent use.
type Session struct {
	id        string
	queue     *Queue
	regen     Regenerator
	validator *AnswerValidator
	now       func() time.Time

	wordOrder []int64
	words     map[int64]*entities.Word
	states    map[int64]entities.ItemState
	tallies   map[int64]*entities.ItemTally

	startedAt  time.Time
	lastActive time.Time
	finishedAt time.Time
	complete   bool
	quit       bool
	result     *entities.SessionResult
}

// NewSession starts a session over the initial queue.
func NewSession(questions []*entities.StudyQuestion, opts SessionOptions) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	validator := opts.Validator
	if validator == nil {
		validator = NewAnswerValidator()
	}

	s := &Session{
		id:        uuid.New().String(),
		queue:     NewQueue(questions),
		regen:     opts.Regenerator,
		validator: validator,
		now:       now,
		words:     make(map[int64]*entities.Word, len(questions)),
		states:    make(map[int64]entities.ItemState, len(questions)),
		tallies:   make(map[int64]*entities.ItemTally, len(questions)),
		startedAt: now(),
	}
	s.lastActive = s.startedAt

	for _, q := range questions {
		id := q.WordID()
		if _, ok := s.words[id]; ok {
			continue
		}
		s.wordOrder = append(s.wordOrder, id)
		s.words[id] = q.Word
		s.states[id] = entities.StateUnseen
		s.tallies[id] = &entities.ItemTally{}
	}

	if s.queue.Len() == 0 {
		s.complete = true
		s.finishedAt = s.startedAt
	}

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Len returns the number of questions still queued.
func (s *Session) Len() int { return s.queue.Len() }

// Total returns the number of distinct words in the session.
func (s *Session) Total() int { return len(s.wordOrder) }

// Mastered returns the number of words that reached Pass2.
func (s *Session) Mastered() int {
	n := 0
	for _, st := range s.states {
		if st == entities.StatePass2 {
			n++
		}
	}
	return n
}

// Complete reports whether every word was mastered.
func (s *Session) Complete() bool { return s.complete }

// LastActive returns the time of the last answer, or the start time.
func (s *Session) LastActive() time.Time { return s.lastActive }

// WasQuit reports whether the session was abandoned.
func (s *Session) WasQuit() bool { return s.quit }

// Current returns the head of the queue, or nil when the queue is empty.
func (s *Session) Current() *entities.StudyQuestion {
	if s.queue.Len() == 0 {
		return nil
	}
	return s.queue.At(0)
}

// Questions returns the pending questions in queue order.
func (s *Session) Questions() []*entities.StudyQuestion {
	return s.queue.Questions()
}

// State returns the state of a word.
func (s *Session) State(wordID int64) entities.ItemState {
	return s.states[wordID]
}

// Words returns every word of the session in its initial order.
func (s *Session) Words() []*entities.Word {
	out := make([]*entities.Word, 0, len(s.wordOrder))
	for _, id := range s.wordOrder {
		out = append(out, s.words[id])
	}
	return out
}

// SubmitAnswer grades answer against the question at position index and
// advances the state machine.
func (s *Session) SubmitAnswer(index int, answer string) (AnswerOutcome, error) {
	switch {
	case s.quit:
		return AnswerOutcome{}, ErrSessionQuit
	case s.complete:
		return AnswerOutcome{}, ErrSessionComplete
	case index < 0 || index >= s.queue.Len():
		return AnswerOutcome{}, fmt.Errorf("index %d of %d: %w", index, s.queue.Len(), ErrIndexOutOfRange)
	}

	s.lastActive = s.now()

	q := s.queue.At(index)
	id := q.WordID()
	prev := s.states[id]
	verdict := s.validator.Grade(q, answer)
	next := prev.Next(verdict.Correct)
	tally := s.tallies[id]

	switch next {
	case entities.StatePass2:
		tally.Passed1++
		tally.Passed2++
		s.queue.Remove(index)
	case entities.StatePass1:
		tally.Passed1++
		s.regenerate(s.queue.MoveToBack(index))
	default:
		tally.Failed++
		s.regenerate(s.queue.MoveForwardBy(index, failStep))
	}
	s.states[id] = next

	if s.queue.Len() == 0 {
		s.complete = true
		s.finishedAt = s.lastActive
	}

	return AnswerOutcome{
		WordID:   id,
		Correct:  verdict.Correct,
		NearMiss: verdict.NearMiss,
		Answer:   q.Answer,
		Previous: prev,
		State:    next,
		Complete: s.complete,
	}, nil
}

// regenerate replaces the question at position i; on failure the old one stays.
func (s *Session) regenerate(i int) {
	if s.regen == nil {
		return
	}
	q, err := s.regen.Regenerate(s.queue.At(i).Word)
	if err != nil || q == nil {
		return
	}
	s.queue.Replace(i, q)
}

// Quit abandons the session and returns the IDs of the words not mastered,
// including those never shown.
func (s *Session) Quit() ([]int64, error) {
	switch {
	case s.quit:
		return nil, ErrSessionQuit
	case s.complete:
		return nil, ErrSessionComplete
	}

	s.quit = true
	s.finishedAt = s.now()
	return s.abandoned(), nil
}

func (s *Session) abandoned() []int64 {
	var out []int64
	for _, id := range s.wordOrder {
		if s.states[id] != entities.StatePass2 {
			out = append(out, id)
		}
	}
	return out
}

// Finish returns the result of a completed or quit session. The result is
// computed once; later calls return the same values.
func (s *Session) Finish() (entities.SessionResult, error) {
	if !s.complete && !s.quit {
		return entities.SessionResult{}, ErrSessionInProgress
	}

	if s.result == nil {
		res := &entities.SessionResult{
			SessionID:      s.id,
			Items:          make(map[int64]entities.ItemTally),
			ElapsedSeconds: int(s.finishedAt.Sub(s.startedAt).Seconds()),
		}
		for _, id := range s.wordOrder {
			t := *s.tallies[id]
			if !t.Seen() {
				continue
			}
			res.Items[id] = t
			res.XP += t.XP()
		}
		if s.quit {
			res.Abandoned = s.abandoned()
		}
		s.result = res
	}

	return copyResult(*s.result), nil
}

func copyResult(r entities.SessionResult) entities.SessionResult {
	items := make(map[int64]entities.ItemTally, len(r.Items))
	for k, v := range r.Items {
		items[k] = v
	}
	r.Items = items
	r.Abandoned = append([]int64(nil), r.Abandoned...)
	return r
}
